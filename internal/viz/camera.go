package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/teatro/internal/dynamo"
)

// Camera projects world points onto the canvas. It looks down -z at
// Center and frames a HalfW x HalfH window at zoom 1.
type Camera struct {
	Center       dynamo.Vec3
	HalfW, HalfH float64
	Distance     float64
	RotX, RotY   float64
	Zoom         float64
}

func NewCamera(center dynamo.Vec3, halfW, halfH float64) *Camera {
	return &Camera{Center: center, HalfW: halfW, HalfH: halfH, Distance: 60, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DY(c.RotY).Mul3(mgl64.Rotate3DX(c.RotX))
}

// Project maps p to dot coordinates on a sw x sh dot canvas. It returns
// false when p is behind the camera or off screen.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, bool) {
	rel := mgl64.Vec3(p.Sub(c.Center))
	rot := c.rotation().Mul3x1(rel).Mul(c.Zoom)
	if rot.Z() >= c.Distance-0.1 {
		return 0, 0, false
	}
	perspective := c.Distance / (c.Distance - rot.Z())
	unit := math.Min(float64(sw)/(2*c.HalfW), float64(sh)/(2*c.HalfH))

	sx := int(math.Round(rot.X()*perspective*unit)) + sw/2
	sy := int(math.Round(-rot.Y()*perspective*unit)) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}
