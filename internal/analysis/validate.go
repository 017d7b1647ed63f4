package analysis

import (
	"fmt"

	"github.com/san-kum/world3/internal/sim"
)

// Historical envelope a business-as-usual run has to stay within.
const (
	Pop1900Min       = 1.0e9
	Pop1900Max       = 2.5e9
	Pop1970Min       = 2.5e9
	Pop1970Max       = 5.0e9
	PeakPopMin       = 6.0e9
	PeakPopMax       = 1.2e10
	PeakYearMin      = 2000.0
	PeakYearMax      = 2070.0
	FinalFractionMax = 0.7
	PollutionMin     = 0.5
)

type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type Report struct {
	ScenarioID string  `json:"scenario_id"`
	Checks     []Check `json:"checks"`
}

func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func (r Report) Failures() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// Validate checks a 1900-2100 run against the historical envelope.
func Validate(out *sim.Output) Report {
	r := Report{ScenarioID: out.ScenarioID}
	sum := Summarize(out)

	add := func(name string, ok bool, format string, args ...any) {
		r.Checks = append(r.Checks, Check{Name: name, Passed: ok, Detail: fmt.Sprintf(format, args...)})
	}

	s1900, ok := out.StateAtYear(1900)
	pop := s1900.Population.Population
	add("population 1900", ok && s1900.Time == 1900 && pop >= Pop1900Min && pop <= Pop1900Max,
		"%.3e in [%.1e, %.1e]", pop, Pop1900Min, Pop1900Max)

	s1970, ok := out.StateAtYear(1970)
	pop = s1970.Population.Population
	add("population 1970", ok && s1970.Time == 1970 && pop >= Pop1970Min && pop <= Pop1970Max,
		"%.3e in [%.1e, %.1e]", pop, Pop1970Min, Pop1970Max)

	add("peak population",
		sum.PeakPopulation >= PeakPopMin && sum.PeakPopulation <= PeakPopMax &&
			sum.PeakYear >= PeakYearMin && sum.PeakYear <= PeakYearMax,
		"%.3e in %.0f", sum.PeakPopulation, sum.PeakYear)

	add("resource depletion", sum.EndYear >= 2100 && sum.FinalFraction < FinalFractionMax,
		"%.3f remaining in %.0f, need < %.2f", sum.FinalFraction, sum.EndYear, FinalFractionMax)

	add("pollution rise", sum.MaxPollutionIndex >= PollutionMin,
		"max index %.2f in %.0f, need >= %.2f", sum.MaxPollutionIndex, sum.MaxPollutionYear, PollutionMin)

	return r
}
