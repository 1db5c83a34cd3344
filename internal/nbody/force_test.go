package nbody_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbody/internal/nbody"
)

func mustSystem(masses []float64, pos, vel []nbody.Vec2) nbody.System {
	s, err := nbody.New(masses, pos, vel)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func ring(n int) nbody.System {
	masses := make([]float64, n)
	pos := make([]nbody.Vec2, n)
	vel := make([]nbody.Vec2, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		masses[i] = 1 + 0.1*float64(i%3)
		pos[i] = nbody.Vec2{X: math.Cos(angle) * (1 + 0.05*float64(i%5)), Y: math.Sin(angle)}
	}
	return mustSystem(masses, pos, vel)
}

var _ = Describe("AccelerationOn", func() {
	params := nbody.DefaultParams()

	It("returns exactly zero for a single body", func() {
		s := mustSystem([]float64{5}, []nbody.Vec2{{X: 1, Y: 2}}, []nbody.Vec2{{}})

		acc, err := nbody.AccelerationOn(0, s, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc).To(Equal(nbody.Vec2{}))
	})

	It("rejects indices outside the body list", func() {
		s := ring(3)

		_, err := nbody.AccelerationOn(-1, s, params)
		Expect(err).To(MatchError(nbody.ErrIndexOutOfRange))

		_, err = nbody.AccelerationOn(3, s, params)
		Expect(err).To(MatchError(nbody.ErrIndexOutOfRange))
	})

	It("gives equal and opposite pulls for a symmetric pair", func() {
		const m, d, g = 2.0, 1.5, 3.0
		p := nbody.Params{G: g, Softening: 0}
		s := mustSystem(
			[]float64{m, m},
			[]nbody.Vec2{{X: -d}, {X: d}},
			[]nbody.Vec2{{}, {}},
		)

		a0, err := nbody.AccelerationOn(0, s, p)
		Expect(err).NotTo(HaveOccurred())
		a1, err := nbody.AccelerationOn(1, s, p)
		Expect(err).NotTo(HaveOccurred())

		expected := g * m / ((2 * d) * (2 * d))
		Expect(a0.X).To(BeNumerically("~", expected, 1e-12))
		Expect(a0.Y).To(BeZero())
		Expect(a1.X).To(BeNumerically("~", -expected, 1e-12))
		Expect(a0.Add(a1).Magnitude()).To(BeNumerically("<", 1e-15))
	})

	It("matches the single-pair softened law", func() {
		p := nbody.DefaultParams()
		s := mustSystem(
			[]float64{1, 2},
			[]nbody.Vec2{{}, {X: 1}},
			[]nbody.Vec2{{}, {}},
		)

		acc, err := nbody.AccelerationOn(0, s, p)
		Expect(err).NotTo(HaveOccurred())

		distSoft := math.Sqrt(1 + 1e-4)
		Expect(acc.X).To(BeNumerically("~", 2/(distSoft*distSoft*distSoft), 1e-12))
		Expect(acc.Y).To(BeZero())
	})

	It("bounds the pull at small separations when softened", func() {
		s := mustSystem(
			[]float64{1, 1},
			[]nbody.Vec2{{}, {X: 1e-9}},
			[]nbody.Vec2{{}, {}},
		)

		acc, err := nbody.AccelerationOn(0, s, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc.IsFinite()).To(BeTrue())
		Expect(acc.Magnitude()).To(BeNumerically("<", 1.0))
	})

	It("propagates non-finite values for coincident bodies without softening", func() {
		p := nbody.Params{G: 1, Softening: 0}
		s := mustSystem(
			[]float64{1, 1},
			[]nbody.Vec2{{X: 0.5}, {X: 0.5}},
			[]nbody.Vec2{{}, {}},
		)

		acc, err := nbody.AccelerationOn(0, s, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc.IsFinite()).To(BeFalse())
	})

	It("does not modify the body list", func() {
		s := ring(5)
		before := s.Clone()

		for i := range s {
			_, err := nbody.AccelerationOn(i, s, params)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(s).To(Equal(before))
	})

	It("balances the mass-weighted accelerations", func() {
		s := ring(7)

		var total nbody.Vec2
		scale := 0.0
		for i, b := range s {
			acc, err := nbody.AccelerationOn(i, s, params)
			Expect(err).NotTo(HaveOccurred())
			total = total.Add(acc.Scale(b.Mass))
			scale += acc.Scale(b.Mass).Magnitude()
		}
		Expect(total.Magnitude()).To(BeNumerically("<", 1e-12*scale))
	})
})

var _ = Describe("ForceField", func() {
	params := nbody.DefaultParams()

	It("computes Pairwise from AccelerationOn", func() {
		s := ring(6)
		acc := nbody.Pairwise{}.Accelerations(s, params)
		Expect(acc).To(HaveLen(6))

		for i := range s {
			want, err := nbody.AccelerationOn(i, s, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc[i]).To(Equal(want))
		}
	})

	DescribeTable("ParallelPairwise is bit-identical to Pairwise",
		func(n, workers int) {
			s := ring(n)
			pp := nbody.NewParallelPairwise(workers)
			pp.MinChunk = 2

			Expect(pp.Accelerations(s, params)).To(Equal(nbody.Pairwise{}.Accelerations(s, params)))
		},
		Entry("single body", 1, 4),
		Entry("fewer bodies than workers", 3, 8),
		Entry("uneven chunks", 37, 4),
		Entry("default workers", 64, 0),
	)

	It("reduces Barnes-Hut with theta 0 to the exact sum", func() {
		s := ring(20)
		exact := nbody.Pairwise{}.Accelerations(s, params)
		approx := nbody.NewBarnesHut(0).Accelerations(s, params)

		Expect(approx).To(HaveLen(len(exact)))
		for i := range exact {
			Expect(approx[i].Sub(exact[i]).Magnitude()).To(BeNumerically("<", 1e-9*(1+exact[i].Magnitude())))
		}
	})

	It("keeps Barnes-Hut close to the exact field for a modest theta", func() {
		s := ring(40)
		exact := nbody.Pairwise{}.Accelerations(s, params)
		approx := nbody.NewBarnesHut(0.3).Accelerations(s, params)

		for i := range exact {
			Expect(approx[i].IsFinite()).To(BeTrue())
			Expect(approx[i].Sub(exact[i]).Magnitude()).To(BeNumerically("<", 0.1*exact[i].Magnitude()+1e-6))
		}
	})
})
