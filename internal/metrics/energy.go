package metrics

import (
	"github.com/san-kum/teatro/internal/dynamo"
)

// KineticEnergy tracks the total kinetic energy of a world. Frames carry no
// masses, so it reads the world it was built for.
type KineticEnergy struct {
	name    string
	world   *dynamo.World
	current float64
	peak    float64
	samples int
}

func NewKineticEnergy(w *dynamo.World) *KineticEnergy {
	return &KineticEnergy{
		name:  "kinetic_energy",
		world: w,
	}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f dynamo.Frame) {
	k.current = k.world.KineticEnergy()
	if k.samples == 0 || k.current > k.peak {
		k.peak = k.current
	}
	k.samples++
}

// Value is the energy at the last observed frame.
func (k *KineticEnergy) Value() float64 {
	return k.current
}

func (k *KineticEnergy) Peak() float64 { return k.peak }

func (k *KineticEnergy) Reset() {
	k.current = 0
	k.peak = 0
	k.samples = 0
}
