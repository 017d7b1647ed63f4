package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/world3/internal/sim"
)

// ErrTooShort is returned for trajectories with fewer than two samples.
var ErrTooShort = errors.New("export: trajectory needs at least two samples")

// Line is one series drawn on a chart.
type Line struct {
	Label string
	Path  string
	Color string
}

// DefaultLines follows the classic World3 overview plot.
var DefaultLines = []Line{
	{"population", "population.population", "#ff6b6b"},
	{"food per capita", "agriculture.food_per_capita", "#5fd068"},
	{"industrial output per capita", "capital.industrial_output_per_capita", "#feca57"},
	{"resources", "resources.fraction_remaining", "#00a8cc"},
	{"pollution", "pollution.pollution_index", "#ff9ff3"},
	{"life expectancy", "population.life_expectancy", "#cccccc"},
}

// ChartOptions controls the canvas of ChartSVG.
type ChartOptions struct {
	Width, Height int
	Lines         []Line
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if len(o.Lines) == 0 {
		o.Lines = DefaultLines
	}
	return o
}

const (
	marginLeft   = 50.0
	marginRight  = 200.0
	marginTop    = 20.0
	marginBottom = 30.0
)

// ChartSVG writes out as an SVG line chart. Each series is scaled by
// its own maximum so that all of them share the vertical axis.
func ChartSVG(w io.Writer, out *sim.Output, opts ChartOptions) error {
	if out == nil || len(out.States) < 2 {
		return ErrTooShort
	}
	opts = opts.withDefaults()

	width, height := float64(opts.Width), float64(opts.Height)
	plotW := width - marginLeft - marginRight
	plotH := height - marginTop - marginBottom
	t0, t1 := out.Timeline[0], out.Timeline[len(out.Timeline)-1]
	span := t1 - t0
	if span == 0 {
		span = 1
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	// axes and decade ticks
	fmt.Fprintf(bw, `<g stroke="#444466" fill="#888899" font-family="monospace" font-size="10">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, marginLeft, marginTop, marginLeft, marginTop+plotH, marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
	for year := ceilTo(t0, 20); year <= t1; year += 20 {
		x := marginLeft + (year-t0)/span*plotW
		fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" stroke="none" text-anchor="middle">%.0f</text>
`, x, marginTop+plotH+15, year)
	}
	bw.WriteString("</g>\n")

	for i, line := range opts.Lines {
		values, err := out.Series(line.Path)
		if err != nil {
			return err
		}
		peak := 0.0
		for _, v := range values {
			peak = max(peak, v)
		}
		if peak == 0 {
			peak = 1
		}

		var d strings.Builder
		for j, v := range values {
			x := marginLeft + (out.Timeline[j]-t0)/span*plotW
			y := marginTop + plotH - v/peak*plotH
			if j == 0 {
				fmt.Fprintf(&d, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			}
		}
		fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, line.Color, d.String())

		ly := marginTop + 15*float64(i+1)
		fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s (max %.3g)</text>
`, marginLeft+plotW+10, ly, line.Color, line.Label, peak)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func ceilTo(v, step float64) float64 {
	n := int(v / step)
	if float64(n)*step < v {
		n++
	}
	return float64(n) * step
}
