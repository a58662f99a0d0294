package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/physics"
)

const (
	dt         = 1.0 / 60.0
	epsilonPos = 1e-3
	epsilonVel = 0.05
	roomHalfX  = 15.0
	roomHalfZ  = 10.0
)

var _ = Describe("Ball", func() {
	Describe("defaults", func() {
		It("matches the baseline scene", func() {
			ball := physics.NewBall()
			snap := ball.Snapshot()

			Expect(ball.Radius()).To(Equal(1.0))
			Expect(ball.FloorY()).To(Equal(0.0))
			Expect(snap.Time).To(Equal(0.0))
			Expect(snap.Position).To(Equal(dynamo.V(0, 12, 0)))
			Expect(snap.Velocity).To(Equal(dynamo.Zero))
			Expect(ball.World().Gravity).To(Equal(dynamo.V(0, -9.82, 0)))
			Expect(ball.World().LinearDamping).To(Equal(0.02))
			Expect(ball.World().Constraints()).To(ConsistOf(dynamo.NewBouncyGround(ball.Body(), 0, 0.4)))
		})
	})

	Describe("dropping from rest", func() {
		It("respects the floor and settles", func() {
			ball := physics.NewBall()
			radius := ball.Radius()
			steps := int(8.0 / dt)

			last := ball.Snapshot()
			for i := 0; i < steps; i++ {
				ball.Step(dt)
				last = ball.Snapshot()

				Expect(last.Position.Y()).To(BeNumerically(">=", radius-epsilonPos))
				Expect(math.Abs(last.Position.X())).To(BeNumerically("<=", roomHalfX-radius+epsilonPos))
				Expect(math.Abs(last.Position.Z())).To(BeNumerically("<=", roomHalfZ-radius+epsilonPos))
			}

			Expect(last.Time).To(BeNumerically("~", float64(steps)*dt, 1e-9))
			Expect(last.Position.Y()).To(BeNumerically("~", radius, epsilonPos))
			Expect(last.Velocity.Length()).To(BeNumerically("<", epsilonVel))
		})

		It("absorbs the landing on an inelastic floor", func() {
			cfg := physics.DefaultBallConfig()
			cfg.Bouncy = false
			ball, err := physics.BuildBall(physics.DefaultWorldConfig(), cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < int(8.0/dt); i++ {
				ball.Step(dt)
				Expect(ball.Snapshot().Velocity.Y()).To(BeNumerically("<=", 0))
			}
			Expect(ball.Snapshot().Position.Y()).To(BeNumerically("~", 1.0, epsilonPos))
			Expect(ball.Snapshot().Velocity.Length()).To(BeNumerically("<", epsilonVel))
		})
	})

	Describe("thrown across the floor", func() {
		It("travels at least two radii and settles again", func() {
			radius := 1.0
			cfg := physics.DefaultBallConfig()
			cfg.Position = dynamo.V(0, radius, 0)
			cfg.Radius = radius
			ball, err := physics.BuildBall(physics.DefaultWorldConfig(), cfg)
			Expect(err).NotTo(HaveOccurred())

			ball.SetHorizontalSpeed(4.0)
			initial := ball.Snapshot()
			Expect(initial.Velocity).To(Equal(dynamo.V(4, 0, 0)))

			maxTravel := 0.0
			last := initial
			for i := 0; i < int(10.0/dt); i++ {
				ball.Step(dt)
				last = ball.Snapshot()
				Expect(last.Position.Y()).To(BeNumerically(">=", radius-epsilonPos))
				maxTravel = math.Max(maxTravel, math.Abs(last.Position.X()-initial.Position.X()))
			}

			Expect(maxTravel).To(BeNumerically(">=", 2*radius-epsilonPos))
			Expect(last.Position.Y()).To(BeNumerically("~", radius, epsilonPos))
			Expect(last.Velocity.Length()).To(BeNumerically("<", epsilonVel))
		})
	})

	Describe("Step", func() {
		It("ignores non-positive timesteps", func() {
			ball := physics.NewBall()
			ball.Step(0)
			ball.Step(-dt)
			Expect(ball.Time()).To(Equal(0.0))
			Expect(ball.Snapshot().Position).To(Equal(dynamo.V(0, 12, 0)))
		})

		It("returns snapshots that do not alias the world", func() {
			ball := physics.NewBall()
			before := ball.Snapshot()
			frame := ball.Frame()
			ball.Step(dt)

			Expect(before.Position).To(Equal(dynamo.V(0, 12, 0)))
			state, ok := frame.Body(physics.BallName)
			Expect(ok).To(BeTrue())
			Expect(state.Position).To(Equal(dynamo.V(0, 12, 0)))
			Expect(*state.HalfExtents).To(Equal(dynamo.V(1, 1, 1)))
		})

		It("is deterministic", func() {
			a, b := physics.NewBall(), physics.NewBall()
			for i := 0; i < 600; i++ {
				a.Step(dt)
				b.Step(dt)
			}
			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
		})
	})

	Describe("gravity scaling", func() {
		drop := func(scaling string, mass float64) float64 {
			wc := physics.DefaultWorldConfig()
			wc.GravityScaling = scaling
			bc := physics.DefaultBallConfig()
			bc.Mass = mass
			ball, err := physics.BuildBall(wc, bc)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 30; i++ {
				ball.Step(dt)
			}
			return ball.Snapshot().Position.Y()
		}

		It("drops every mass alike by default", func() {
			Expect(drop("uniform", 2)).To(Equal(drop("uniform", 1)))
		})

		It("slows heavier bodies under inverse-mass scaling", func() {
			Expect(drop("inverse_mass", 2)).To(BeNumerically(">", drop("inverse_mass", 1)))
		})
	})

	Describe("BuildBall", func() {
		DescribeTable("rejects invalid configuration",
			func(mutate func(*physics.WorldConfig, *physics.BallConfig)) {
				wc, bc := physics.DefaultWorldConfig(), physics.DefaultBallConfig()
				mutate(&wc, &bc)
				_, err := physics.BuildBall(wc, bc)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero radius", func(_ *physics.WorldConfig, bc *physics.BallConfig) { bc.Radius = 0 }),
			Entry("zero mass", func(_ *physics.WorldConfig, bc *physics.BallConfig) { bc.Mass = 0 }),
			Entry("restitution above one", func(_ *physics.WorldConfig, bc *physics.BallConfig) { bc.Restitution = 1.5 }),
			Entry("damping of one", func(wc *physics.WorldConfig, _ *physics.BallConfig) { wc.LinearDamping = 1 }),
			Entry("unknown gravity scaling", func(wc *physics.WorldConfig, _ *physics.BallConfig) { wc.GravityScaling = "heavy" }),
		)
	})

	Describe("parameters", func() {
		It("exposes and tunes world parameters", func() {
			ball := physics.NewBall()
			Expect(ball.GetParams()).To(HaveKeyWithValue("damping", 0.02))
			Expect(ball.SetParam("gravity", -1.62)).To(Succeed())
			Expect(ball.World().Gravity.Y()).To(Equal(-1.62))
			Expect(ball.SetParam("damping", 1.2)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(ball.SetParam("spin", 1)).To(HaveOccurred())
		})
	})

	Describe("kicking", func() {
		It("is the only kickable scene", func() {
			var scene dynamo.Scene = physics.NewBall()
			kickable, ok := scene.(dynamo.Kickable)
			Expect(ok).To(BeTrue())
			kickable.SetHorizontalSpeed(-2)
			Expect(scene.(*physics.Ball).Snapshot().Velocity).To(Equal(dynamo.V(-2, 0, 0)))

			scene = physics.NewPuppet()
			_, ok = scene.(dynamo.Kickable)
			Expect(ok).To(BeFalse())
		})
	})
})
