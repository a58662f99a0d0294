package metrics

import (
	"math"

	"github.com/san-kum/teatro/internal/dynamo"
)

// Room bounds of the reference ball scene.
const (
	RoomHalfX = 15.0
	RoomHalfZ = 10.0
)

// RoomContainment is the fraction of observed frames in which a body stays
// inside the room walls, |x| <= halfX-r and |z| <= halfZ-r, where r is the
// body's half-extent on that axis.
type RoomContainment struct {
	name       string
	body       string
	halfX      float64
	halfZ      float64
	violations int
	samples    int
}

func NewRoomContainment(body string, halfX, halfZ float64) *RoomContainment {
	return &RoomContainment{
		name:  "room_containment",
		body:  body,
		halfX: halfX,
		halfZ: halfZ,
	}
}

func (r *RoomContainment) Name() string { return r.name }

func (r *RoomContainment) Observe(f dynamo.Frame) {
	s, ok := f.Body(r.body)
	if !ok {
		return
	}
	r.samples++

	var ex, ez float64
	if s.HalfExtents != nil {
		ex, ez = s.HalfExtents.X(), s.HalfExtents.Z()
	}
	if math.Abs(s.Position.X()) > r.halfX-ex || math.Abs(s.Position.Z()) > r.halfZ-ez {
		r.violations++
	}
}

func (r *RoomContainment) Value() float64 {
	if r.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(r.violations)/float64(r.samples)
}

func (r *RoomContainment) Reset() {
	r.violations = 0
	r.samples = 0
}
