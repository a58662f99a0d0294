package physics

import (
	"fmt"

	"github.com/san-kum/teatro/internal/dynamo"
)

const BallName = "ball"

// BallConfig describes the single-ball scene. The ball collides as a box
// with uniform half-extents equal to Radius.
type BallConfig struct {
	Position    dynamo.Vec3 `yaml:"position" json:"position"`
	Velocity    dynamo.Vec3 `yaml:"velocity" json:"velocity"`
	Radius      float64     `yaml:"radius" json:"radius"`
	Mass        float64     `yaml:"mass" json:"mass"`
	FloorY      float64     `yaml:"floor_y" json:"floor_y"`
	Bouncy      bool        `yaml:"bouncy" json:"bouncy"`
	Restitution float64     `yaml:"restitution" json:"restitution"`
}

func DefaultBallConfig() BallConfig {
	return BallConfig{
		Position:    dynamo.V(0, 12, 0),
		Radius:      1.0,
		Mass:        1.0,
		FloorY:      0,
		Bouncy:      true,
		Restitution: 0.4,
	}
}

// BallSnapshot is a read-only copy of the ball state.
type BallSnapshot struct {
	Time     float64     `json:"time"`
	Position dynamo.Vec3 `json:"position"`
	Velocity dynamo.Vec3 `json:"velocity"`
}

// Ball is one dynamic box body above a floor.
type Ball struct {
	world  *dynamo.World
	body   dynamo.BodyID
	radius float64
	floorY float64
	time   float64
}

// NewBall builds the baseline scene: radius 1, mass 1 at (0,12,0) over a
// bouncy floor at y=0.
func NewBall() *Ball {
	return newBall(dynamo.NewWorld(), DefaultBallConfig())
}

// BuildBall builds a ball scene from configuration and validates it.
func BuildBall(wc WorldConfig, bc BallConfig) (*Ball, error) {
	if bc.Radius <= 0 {
		return nil, fmt.Errorf("ball: %w: radius %g", dynamo.ErrParameterBounds, bc.Radius)
	}
	if bc.Mass <= 0 {
		return nil, fmt.Errorf("ball: %w: mass %g", dynamo.ErrParameterBounds, bc.Mass)
	}
	w, err := wc.NewWorld()
	if err != nil {
		return nil, err
	}
	b := newBall(w, bc)
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("ball: %w", err)
	}
	return b, nil
}

func newBall(w *dynamo.World, bc BallConfig) *Ball {
	half := dynamo.V(bc.Radius, bc.Radius, bc.Radius)
	id := w.AddBody(dynamo.NewBody(bc.Position, bc.Mass,
		dynamo.WithVelocity(bc.Velocity),
		dynamo.WithHalfExtents(half),
	))
	if bc.Bouncy {
		w.AddConstraint(dynamo.NewBouncyGround(id, bc.FloorY, bc.Restitution))
	} else {
		w.AddConstraint(dynamo.NewGround(id, bc.FloorY))
	}
	return &Ball{world: w, body: id, radius: bc.Radius, floorY: bc.FloorY}
}

func (b *Ball) Name() string         { return BallName }
func (b *Ball) World() *dynamo.World { return b.world }
func (b *Ball) Time() float64        { return b.time }
func (b *Ball) Radius() float64      { return b.radius }
func (b *Ball) FloorY() float64      { return b.floorY }
func (b *Ball) Body() dynamo.BodyID  { return b.body }

func (b *Ball) Step(dt float64) {
	if dt <= 0 {
		return
	}
	b.time += dt
	b.world.Step(dt)
}

func (b *Ball) Snapshot() BallSnapshot {
	body := b.world.Body(b.body)
	return BallSnapshot{Time: b.time, Position: body.Position, Velocity: body.Velocity}
}

func (b *Ball) Frame() dynamo.Frame {
	return dynamo.Capture(b.world, b.time, []string{BallName}, []dynamo.BodyID{b.body})
}

// SetHorizontalSpeed replaces the ball velocity with (speed, 0, 0).
func (b *Ball) SetHorizontalSpeed(speed float64) {
	b.world.Body(b.body).Velocity = dynamo.V(speed, 0, 0)
}

func (b *Ball) GetParams() map[string]float64 {
	return worldParams(b.world)
}

func (b *Ball) SetParam(name string, value float64) error {
	ok, err := setWorldParam(b.world, name, value)
	if !ok {
		return fmt.Errorf("unknown param: %s", name)
	}
	return err
}
