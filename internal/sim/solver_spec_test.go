package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/dynamo"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/world"
)

var _ = Describe("Solver", func() {
	var (
		tables *lookup.Tables
		solver *sim.Solver
	)

	BeforeEach(func() {
		tables = lookup.MustLoad()
		solver = sim.New(tables, nil)
	})

	Context("business as usual, 1900 to 2100", func() {
		var states []world.State

		BeforeEach(func() {
			var err error
			states, err = solver.Solve(world.InitialConditions1900(), *config.BusinessAsUsual())
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces one sample per year", func() {
			Expect(states).To(HaveLen(201))
			Expect(states[0].Time).To(Equal(1900.0))
			Expect(states[200].Time).To(Equal(2100.0))
		})

		It("keeps stocks nonnegative and the resource fraction bounded", func() {
			for _, s := range states {
				for _, v := range s.ToVector() {
					Expect(v).To(BeNumerically(">=", 0))
				}
				Expect(s.Resources.FractionRemaining).To(BeNumerically(">=", 0))
				Expect(s.Resources.FractionRemaining).To(BeNumerically("<=", 1))
			}
		})

		It("keeps the population equal to the cohort sum", func() {
			for _, s := range states {
				p := s.Population
				sum := p.Cohort0to14 + p.Cohort15to44 + p.Cohort45to64 + p.Cohort65Plus
				Expect(p.Population).To(BeNumerically("~", sum, sum*1e-12))
			}
		})

		It("starts near the historical 1900 population", func() {
			Expect(states[0].Population.Population).To(BeNumerically(">=", 1.0e9))
			Expect(states[0].Population.Population).To(BeNumerically("<=", 2.5e9))
		})

		It("passes through a plausible 1970", func() {
			Expect(states[70].Time).To(Equal(1970.0))
			Expect(states[70].Population.Population).To(BeNumerically(">=", 2.5e9))
			Expect(states[70].Population.Population).To(BeNumerically("<=", 5.0e9))
		})

		It("overshoots and peaks in the 21st century", func() {
			peak := states[0]
			for _, s := range states {
				if s.Population.Population > peak.Population.Population {
					peak = s
				}
			}
			Expect(peak.Population.Population).To(BeNumerically(">=", 6.0e9))
			Expect(peak.Population.Population).To(BeNumerically("<=", 1.2e10))
			Expect(peak.Time).To(BeNumerically(">=", 2000))
			Expect(peak.Time).To(BeNumerically("<=", 2070))
		})

		It("depletes resources and accumulates pollution", func() {
			Expect(states[200].Resources.FractionRemaining).To(BeNumerically("<", 0.7))

			maxIndex := 0.0
			for _, s := range states {
				maxIndex = max(maxIndex, s.Pollution.PollutionIndex)
			}
			Expect(maxIndex).To(BeNumerically(">=", 0.5))
		})

		It("is deterministic", func() {
			again, err := solver.Solve(world.InitialConditions1900(), *config.BusinessAsUsual())
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(states))
		})
	})

	DescribeTable("every preset completes without diverging",
		func(name string) {
			p := config.GetPreset(name)
			Expect(p).NotTo(BeNil())

			out, err := sim.Run(tables, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.States).To(HaveLen(p.Steps()))
		},
		Entry("bau", "bau"),
		Entry("technology", "technology"),
		Entry("stabilized", "stabilized"),
	)

	It("reports runaway capital as divergence", func() {
		p := config.BusinessAsUsual()
		p.IndustrialDepreciationRate = -0.5

		states, err := solver.Solve(world.InitialConditions1900(), *p)
		Expect(states).To(BeNil())
		Expect(errors.Is(err, dynamo.ErrDiverged)).To(BeTrue())

		var div *dynamo.DivergenceError
		Expect(errors.As(err, &div)).To(BeTrue())
		Expect(div.Variable).To(Equal("capital.industrial_capital"))
	})

	It("gives the same answer from a half-year step", func() {
		p := config.BusinessAsUsual()
		p.TimeStep = 0.5

		states, err := solver.Solve(world.InitialConditions1900(), *p)
		Expect(err).NotTo(HaveOccurred())
		Expect(states).To(HaveLen(401))
	})
})

var _ = Describe("Ensemble", func() {
	It("returns outputs in input order", func() {
		ens := sim.NewEnsemble(lookup.MustLoad(), nil)
		scenarios := []*config.Scenario{
			config.StabilizedWorld(),
			config.BusinessAsUsual(),
			config.ComprehensiveTechnology(),
		}

		outs, err := ens.Run(context.Background(), scenarios)
		Expect(err).NotTo(HaveOccurred())
		Expect(outs).To(HaveLen(3))
		Expect(outs[0].ScenarioID).To(Equal("stabilized"))
		Expect(outs[1].ScenarioID).To(Equal("bau"))
		Expect(outs[2].ScenarioID).To(Equal("technology"))
	})

	It("fails the whole batch when one scenario diverges", func() {
		bad := config.BusinessAsUsual()
		bad.Meta.ID = "runaway"
		bad.IndustrialDepreciationRate = -0.5

		ens := sim.NewEnsemble(lookup.MustLoad(), nil)
		_, err := ens.Run(context.Background(), []*config.Scenario{config.BusinessAsUsual(), bad})
		Expect(err).To(MatchError(ContainSubstring("runaway")))
		Expect(errors.Is(err, dynamo.ErrDiverged)).To(BeTrue())
	})

	It("does not start runs after cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ens := sim.NewEnsemble(lookup.MustLoad(), nil)
		_, err := ens.Run(ctx, []*config.Scenario{config.BusinessAsUsual()})
		Expect(err).To(MatchError(context.Canceled))
	})
})
