package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/teatro/internal/dynamo"
)

// Rig body names, in world insertion order.
const (
	Bar   = "bar"
	Torso = "torso"
	Head  = "head"
	HandL = "hand_l"
	HandR = "hand_r"
	FootL = "foot_l"
	FootR = "foot_r"
)

var rigNames = []string{Bar, Torso, Head, HandL, HandR, FootL, FootR}

// BarDrive scripts the kinematic control bar:
//
//	x = SwayAmplitude * sin(SwayFrequency * t)
//	y = Height + BobAmplitude * sin(BobFrequency * t)
//	z = 0
type BarDrive struct {
	Height        float64 `yaml:"height" json:"height"`
	SwayAmplitude float64 `yaml:"sway_amplitude" json:"sway_amplitude"`
	SwayFrequency float64 `yaml:"sway_frequency" json:"sway_frequency"`
	BobAmplitude  float64 `yaml:"bob_amplitude" json:"bob_amplitude"`
	BobFrequency  float64 `yaml:"bob_frequency" json:"bob_frequency"`
}

func (d BarDrive) At(t float64) dynamo.Vec3 {
	sway := math.Sin(t*d.SwayFrequency) * d.SwayAmplitude
	bob := math.Sin(t*d.BobFrequency) * d.BobAmplitude
	return dynamo.V(sway, d.Height+bob, 0)
}

type PuppetConfig struct {
	Drive             BarDrive `yaml:"drive" json:"drive"`
	SkeletonStiffness float64  `yaml:"skeleton_stiffness" json:"skeleton_stiffness"`
	StringStiffness   float64  `yaml:"string_stiffness" json:"string_stiffness"`
	Floor             bool     `yaml:"floor" json:"floor"`
	FloorY            float64  `yaml:"floor_y" json:"floor_y"`
}

func DefaultPuppetConfig() PuppetConfig {
	return PuppetConfig{
		Drive: BarDrive{
			Height:        15,
			SwayAmplitude: 2.0,
			SwayFrequency: 0.7,
			BobAmplitude:  0.5,
			BobFrequency:  0.9,
		},
		SkeletonStiffness: 0.8,
		StringStiffness:   0.9,
	}
}

// PuppetSnapshot holds body positions only; the rig is read as a pose.
type PuppetSnapshot struct {
	Bar   dynamo.Vec3 `json:"bar"`
	Torso dynamo.Vec3 `json:"torso"`
	Head  dynamo.Vec3 `json:"head"`
	HandL dynamo.Vec3 `json:"hand_l"`
	HandR dynamo.Vec3 `json:"hand_r"`
	FootL dynamo.Vec3 `json:"foot_l"`
	FootR dynamo.Vec3 `json:"foot_r"`
}

// Puppet is a marionette: a kinematic bar holding head and hands on strings,
// with a torso skeleton linking head, hands and feet.
type Puppet struct {
	world  *dynamo.World
	drive  BarDrive
	ids    []dynamo.BodyID
	floor  bool
	floorY float64
	time   float64
}

func NewPuppet() *Puppet {
	return newPuppet(dynamo.NewWorld(), DefaultPuppetConfig())
}

func BuildPuppet(wc WorldConfig, pc PuppetConfig) (*Puppet, error) {
	w, err := wc.NewWorld()
	if err != nil {
		return nil, err
	}
	p := newPuppet(w, pc)
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("puppet: %w", err)
	}
	return p, nil
}

func newPuppet(w *dynamo.World, pc PuppetConfig) *Puppet {
	bar := w.AddBody(dynamo.NewBody(pc.Drive.At(0), 0))
	torso := w.AddBody(dynamo.NewBody(dynamo.V(0, 8, 0), 1.0))
	head := w.AddBody(dynamo.NewBody(dynamo.V(0, 10, 0), 0.5))
	handL := w.AddBody(dynamo.NewBody(dynamo.V(-1.8, 8, 0), 0.3))
	handR := w.AddBody(dynamo.NewBody(dynamo.V(1.8, 8, 0), 0.3))
	footL := w.AddBody(dynamo.NewBody(dynamo.V(-0.6, 5, 0), 0.4))
	footR := w.AddBody(dynamo.NewBody(dynamo.V(0.6, 5, 0), 0.4))

	link := func(a, b dynamo.BodyID, stiffness float64) {
		w.AddConstraint(dynamo.NewDistanceAtRest(w, a, b, stiffness))
	}

	// skeleton
	for _, limb := range []dynamo.BodyID{head, handL, handR, footL, footR} {
		link(torso, limb, pc.SkeletonStiffness)
	}
	// strings
	for _, held := range []dynamo.BodyID{head, handL, handR} {
		link(bar, held, pc.StringStiffness)
	}
	if pc.Floor {
		w.AddConstraint(dynamo.NewGround(footL, pc.FloorY))
		w.AddConstraint(dynamo.NewGround(footR, pc.FloorY))
	}

	return &Puppet{
		world:  w,
		drive:  pc.Drive,
		ids:    []dynamo.BodyID{bar, torso, head, handL, handR, footL, footR},
		floor:  pc.Floor,
		floorY: pc.FloorY,
	}
}

func (p *Puppet) Name() string         { return "puppet" }
func (p *Puppet) World() *dynamo.World { return p.world }
func (p *Puppet) Time() float64        { return p.time }
func (p *Puppet) FloorY() float64      { return p.floorY }
func (p *Puppet) Drive() BarDrive      { return p.drive }
func (p *Puppet) HasFloor() bool       { return p.floor }

// Step drives the bar at the rig clock, then advances world and clock by dt.
func (p *Puppet) Step(dt float64) {
	if dt <= 0 {
		return
	}
	p.StepAt(dt, p.time)
}

// StepAt drives the bar at time t and steps the world. The rig clock becomes
// t+dt.
func (p *Puppet) StepAt(dt, t float64) {
	p.driveBar(t)
	p.world.Step(dt)
	if dt > 0 {
		p.time = t + dt
	}
}

func (p *Puppet) driveBar(t float64) {
	p.world.Body(p.ids[0]).Position = p.drive.At(t)
}

func (p *Puppet) pos(i int) dynamo.Vec3 { return p.world.Body(p.ids[i]).Position }

func (p *Puppet) Snapshot() PuppetSnapshot {
	return PuppetSnapshot{
		Bar:   p.pos(0),
		Torso: p.pos(1),
		Head:  p.pos(2),
		HandL: p.pos(3),
		HandR: p.pos(4),
		FootL: p.pos(5),
		FootR: p.pos(6),
	}
}

func (p *Puppet) Frame() dynamo.Frame {
	return dynamo.Capture(p.world, p.time, rigNames, p.ids)
}

func (p *Puppet) GetParams() map[string]float64 {
	params := worldParams(p.world)
	params["bar_height"] = p.drive.Height
	params["sway_amplitude"] = p.drive.SwayAmplitude
	params["sway_frequency"] = p.drive.SwayFrequency
	params["bob_amplitude"] = p.drive.BobAmplitude
	params["bob_frequency"] = p.drive.BobFrequency
	return params
}

func (p *Puppet) SetParam(name string, value float64) error {
	if ok, err := setWorldParam(p.world, name, value); ok {
		return err
	}
	switch name {
	case "bar_height":
		p.drive.Height = value
	case "sway_amplitude":
		p.drive.SwayAmplitude = value
	case "sway_frequency":
		p.drive.SwayFrequency = value
	case "bob_amplitude":
		p.drive.BobAmplitude = value
	case "bob_frequency":
		p.drive.BobFrequency = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
