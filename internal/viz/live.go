package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/world3/internal/sim"
	"github.com/san-kum/world3/internal/world"
)

const (
	tickInterval = time.Second / 20
	maxSpeed     = 16
	graphWidth   = 60
	graphHeight  = 12
	sparkWidth   = 30
)

var (
	graphPanelStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(52)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Trace is one plottable series of a trajectory.
type Trace struct {
	Label  string
	Path   string
	Format func(float64) string
	Values []float64
}

// DefaultTraces are the indicators shown by the replay viewer.
var DefaultTraces = []Trace{
	{Label: "Population", Path: "population.population", Format: billions},
	{Label: "Life expectancy", Path: "population.life_expectancy", Format: years},
	{Label: "Food/capita", Path: "agriculture.food_per_capita", Format: plain},
	{Label: "Industry/capita", Path: "capital.industrial_output_per_capita", Format: plain},
	{Label: "Resources left", Path: "resources.fraction_remaining", Format: percent},
	{Label: "Pollution index", Path: "pollution.pollution_index", Format: ratio},
}

// Model replays a finished trajectory in the terminal.
type Model struct {
	out      *sim.Output
	traces   []Trace
	playHead int
	speed    int
	selected int
	running  bool
	showHelp bool
}

// NewReplay prepares a viewer over out. The trajectory must not be empty.
func NewReplay(out *sim.Output) (*Model, error) {
	if out == nil || len(out.States) == 0 {
		return nil, fmt.Errorf("viz: empty trajectory")
	}
	traces := make([]Trace, len(DefaultTraces))
	for i, tr := range DefaultTraces {
		values, err := out.Series(tr.Path)
		if err != nil {
			return nil, err
		}
		tr.Values = values
		traces[i] = tr
	}
	return &Model{out: out, traces: traces, speed: 1, running: true}, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key presses and playback ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.finished() {
				m.playHead = 0
			}
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "{":
			m.scrub(-10)
		case "}":
			m.scrub(10)
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "tab":
			m.selected = (m.selected + 1) % len(m.traces)
		case "shift+tab":
			m.selected = (m.selected + len(m.traces) - 1) % len(m.traces)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	m.playHead += n
	if last := len(m.out.States) - 1; m.playHead >= last {
		m.playHead = last
		m.running = false
	}
}

// scrub moves the play head and pauses playback.
func (m *Model) scrub(delta int) {
	m.running = false
	m.playHead += delta
	if m.playHead < 0 {
		m.playHead = 0
	}
	if last := len(m.out.States) - 1; m.playHead > last {
		m.playHead = last
	}
}

func (m *Model) reset() {
	m.playHead = 0
	m.speed = 1
	m.running = true
}

func (m Model) finished() bool { return m.playHead >= len(m.out.States)-1 }

// Current returns the sample under the play head.
func (m Model) Current() world.State { return m.out.States[m.playHead] }

func (m Model) status() string {
	switch {
	case m.running:
		return StatusRunning.Render(fmt.Sprintf("PLAYING x%d", m.speed))
	case m.finished():
		return StatusPaused.Render("FINISHED")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

// View renders the selected series as a graph next to the indicator panel.
func (m Model) View() string {
	sel := m.traces[m.selected]
	visible := sel.Values[:m.playHead+1]
	if len(visible) < 2 {
		visible = sel.Values[:min(2, len(sel.Values))]
	}
	chart := asciigraph.Plot(visible,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(fmt.Sprintf("%s, %.0f-%.0f", sel.Label, m.out.Timeline[0], m.Current().Time)))
	graphView := graphPanelStyle.Render(graphStyle.Render(chart))

	title := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Secondary)
	var s strings.Builder
	name := m.out.ScenarioName
	if name == "" {
		name = m.out.ScenarioID
	}
	s.WriteString(title.Render(strings.ToUpper("world3 "+name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(labelStyle.Render("Year") + valueStyle.Render(fmt.Sprintf("%.1f", m.Current().Time)) + "\n")
	progress := float64(m.playHead) / float64(max(1, len(m.out.States)-1))
	s.WriteString(labelStyle.Render("Progress") + ProgressBar(progress, 20) + "\n\n")

	for i, tr := range m.traces {
		line := labelStyle.Render(tr.Label) + valueStyle.Render(fmt.Sprintf("%-10s", tr.Format(tr.Values[m.playHead])))
		if i == m.selected {
			line = activeStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
		s.WriteString("  " + SparklineChart(tr.Values[:m.playHead+1], sparkWidth) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n[ ]:Scrub +/-:Speed Tab:Series ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, graphView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from first year  ║
║  Q        - Quit                     ║
║  [ ]      - Step one sample          ║
║  { }      - Step ten samples         ║
║  + -      - Change playback speed    ║
║  Tab      - Cycle graphed series     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func billions(v float64) string { return fmt.Sprintf("%.3f bn", v/1e9) }
func years(v float64) string    { return fmt.Sprintf("%.1f yr", v) }
func plain(v float64) string    { return fmt.Sprintf("%.1f", v) }
func percent(v float64) string  { return fmt.Sprintf("%.1f%%", v*100) }
func ratio(v float64) string    { return fmt.Sprintf("%.2fx", v) }
