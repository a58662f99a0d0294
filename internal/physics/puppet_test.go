package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/physics"
)

var _ = Describe("Puppet", func() {
	var rig *physics.Puppet

	BeforeEach(func() {
		rig = physics.NewPuppet()
	})

	It("starts in the rest pose", func() {
		pose := rig.Snapshot()
		Expect(pose.Bar).To(Equal(dynamo.V(0, 15, 0)))
		Expect(pose.Torso).To(Equal(dynamo.V(0, 8, 0)))
		Expect(pose.Head).To(Equal(dynamo.V(0, 10, 0)))
		Expect(pose.HandL).To(Equal(dynamo.V(-1.8, 8, 0)))
		Expect(pose.HandR).To(Equal(dynamo.V(1.8, 8, 0)))
		Expect(pose.FootL).To(Equal(dynamo.V(-0.6, 5, 0)))
		Expect(pose.FootR).To(Equal(dynamo.V(0.6, 5, 0)))
	})

	It("wires skeleton links before strings", func() {
		cs := rig.World().Constraints()
		Expect(cs).To(HaveLen(8))

		for i, c := range cs {
			d, ok := c.(dynamo.Distance)
			Expect(ok).To(BeTrue())
			if i < 5 {
				Expect(d.Stiffness).To(Equal(0.8))
				Expect(d.A).To(Equal(dynamo.BodyID(1)))
			} else {
				Expect(d.Stiffness).To(Equal(0.9))
				Expect(d.A).To(Equal(dynamo.BodyID(0)))
			}
		}
		Expect(cs[5].(dynamo.Distance).RestLength).To(Equal(5.0))
	})

	It("keeps the bar kinematic and on its scripted path", func() {
		bar := rig.World().Body(0)
		Expect(bar.IsKinematic()).To(BeTrue())

		drive := rig.Drive()
		for i := 0; i < 300; i++ {
			t := float64(i) * dt
			rig.StepAt(dt, t)
			Expect(rig.Snapshot().Bar).To(Equal(drive.At(t)))
		}
		Expect(rig.Time()).To(BeNumerically("~", 300*dt, 1e-9))
	})

	It("hangs from its strings without collapsing", func() {
		for i := 0; i < int(20.0/dt); i++ {
			rig.Step(dt)
			Expect(rig.Frame().IsValid()).To(BeTrue())
		}

		pose := rig.Snapshot()
		Expect(pose.Head.Sub(pose.Bar).Length()).To(BeNumerically("~", 5.0, 1.0))
		Expect(pose.Head.Y()).To(BeNumerically(">", pose.Torso.Y()))
		Expect(pose.Torso.Y()).To(BeNumerically(">", pose.FootL.Y()))
		Expect(pose.Torso.Y()).To(BeNumerically(">", pose.FootR.Y()))
		Expect(math.Abs(pose.Torso.X() - pose.Bar.X())).To(BeNumerically("<", 2.0))
	})

	It("reports every rig body in its frame", func() {
		rig.Step(dt)
		f := rig.Frame()
		Expect(f.Time).To(BeNumerically("~", dt, 1e-12))
		for _, name := range []string{physics.Bar, physics.Torso, physics.Head, physics.HandL, physics.HandR, physics.FootL, physics.FootR} {
			_, ok := f.Body(name)
			Expect(ok).To(BeTrue(), name)
		}
	})

	It("ignores non-positive timesteps", func() {
		rig.Step(0)
		Expect(rig.Time()).To(Equal(0.0))
		Expect(rig.Snapshot().Torso).To(Equal(dynamo.V(0, 8, 0)))
	})

	It("is deterministic", func() {
		other := physics.NewPuppet()
		for i := 0; i < 600; i++ {
			rig.Step(dt)
			other.Step(dt)
		}
		Expect(rig.Snapshot()).To(Equal(other.Snapshot()))
	})

	Context("with a stage floor", func() {
		It("keeps the feet above it", func() {
			cfg := physics.DefaultPuppetConfig()
			cfg.Floor = true
			cfg.FloorY = 4
			staged, err := physics.BuildPuppet(physics.DefaultWorldConfig(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(staged.World().Constraints()).To(HaveLen(10))

			for i := 0; i < int(20.0/dt); i++ {
				staged.Step(dt)
				pose := staged.Snapshot()
				Expect(pose.FootL.Y()).To(BeNumerically(">=", 4-1e-9))
				Expect(pose.FootR.Y()).To(BeNumerically(">=", 4-1e-9))
			}
		})
	})

	It("tunes the bar drive", func() {
		Expect(rig.GetParams()).To(HaveKeyWithValue("sway_frequency", 0.7))
		Expect(rig.SetParam("sway_amplitude", 0)).To(Succeed())
		Expect(rig.SetParam("bob_amplitude", 0)).To(Succeed())
		for i := 0; i < 60; i++ {
			rig.Step(dt)
			Expect(rig.Snapshot().Bar).To(Equal(dynamo.V(0, 15, 0)))
		}
		Expect(rig.SetParam("elbow", 1)).To(HaveOccurred())
	})
})
