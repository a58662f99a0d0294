package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a value-typed 3-vector. Every method returns a new value.
type Vec3 mgl64.Vec3

// Zero is the additive identity.
var Zero = Vec3{}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3(mgl64.Vec3(v).Add(mgl64.Vec3(o))) }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3(mgl64.Vec3(v).Sub(mgl64.Vec3(o))) }
func (v Vec3) Scale(s float64) Vec3 { return Vec3(mgl64.Vec3(v).Mul(s)) }
func (v Vec3) Dot(o Vec3) float64   { return mgl64.Vec3(v).Dot(mgl64.Vec3(o)) }

// Length is sqrt(v·v).
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns the unit vector along v, or Zero when v has no length.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l > 0 {
		return v.Scale(1 / l)
	}
	return Zero
}

func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return mgl64.Vec3(v).ApproxEqualThreshold(mgl64.Vec3(o), eps)
}

func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
