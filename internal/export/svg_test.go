package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/world"
)

func TestChartSVG(t *testing.T) {
	p := config.DefaultScenario()
	p.EndYear, p.TimeStep = 2000, 2
	out, err := sim.Run(lookup.MustLoad(), p)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var buf bytes.Buffer
	if err := ChartSVG(&buf, out, ChartOptions{}); err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	svg := buf.String()

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("output is not a complete svg document")
	}
	if got := strings.Count(svg, "<path "); got != len(DefaultLines) {
		t.Errorf("paths = %d, want %d", got, len(DefaultLines))
	}
	for _, label := range []string{"1900", "1980", "population", "pollution"} {
		if !strings.Contains(svg, label) {
			t.Errorf("svg missing %q", label)
		}
	}
}

func TestChartSVGErrors(t *testing.T) {
	var buf bytes.Buffer
	short := &sim.Output{Timeline: []float64{1900}, States: []world.State{{Time: 1900}}}
	if err := ChartSVG(&buf, short, ChartOptions{}); !errors.Is(err, ErrTooShort) {
		t.Errorf("got %v, want ErrTooShort", err)
	}

	two := &sim.Output{Timeline: []float64{1900, 1901}, States: []world.State{{Time: 1900}, {Time: 1901}}}
	err := ChartSVG(&buf, two, ChartOptions{Lines: []Line{{"bogus", "no.such.field", "#fff"}}})
	if !errors.Is(err, sim.ErrUnknownField) {
		t.Errorf("got %v, want ErrUnknownField", err)
	}
}
