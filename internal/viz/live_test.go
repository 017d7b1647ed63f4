package viz

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/world3/internal/config"
	"github.com/san-kum/world3/internal/lookup"
	"github.com/san-kum/world3/internal/sim"
)

func replayFixture(t *testing.T) *Model {
	t.Helper()
	p := config.DefaultScenario()
	p.EndYear, p.TimeStep = 1950, 1
	out, err := sim.Run(lookup.MustLoad(), p)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	m, err := NewReplay(out)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestNewReplayRejectsEmpty(t *testing.T) {
	if _, err := NewReplay(&sim.Output{}); err == nil {
		t.Error("expected error for empty trajectory")
	}
	if _, err := NewReplay(nil); err == nil {
		t.Error("expected error for nil output")
	}
}

func TestTickAdvancesUntilEnd(t *testing.T) {
	m := *replayFixture(t)
	last := len(m.out.States) - 1

	for i := 0; i < last+10; i++ {
		next, cmd := m.Update(TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule another tick")
		}
		m = next.(Model)
	}
	if m.playHead != last {
		t.Errorf("play head %d, want %d", m.playHead, last)
	}
	if m.running {
		t.Error("playback should stop at the last sample")
	}
	if m.Current().Time != 1950 {
		t.Errorf("final year %.1f, want 1950", m.Current().Time)
	}
}

func TestScrubPausesAndClamps(t *testing.T) {
	m := press(*replayFixture(t), "[")
	if m.running {
		t.Error("scrub should pause playback")
	}
	if m.playHead != 0 {
		t.Errorf("play head %d, want 0", m.playHead)
	}

	m = press(m, "}", "}", "]")
	if m.playHead != 21 {
		t.Errorf("play head %d, want 21", m.playHead)
	}

	next, _ := m.Update(TickMsg{})
	if next.(Model).playHead != 21 {
		t.Error("paused replay should not advance")
	}
}

func TestSpeedAndReset(t *testing.T) {
	m := press(*replayFixture(t), "+", "+")
	if m.speed != 4 {
		t.Fatalf("speed %d, want 4", m.speed)
	}
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	if m.playHead != 4 {
		t.Errorf("play head %d, want 4", m.playHead)
	}

	m = press(m, "-", "r")
	if m.playHead != 0 || m.speed != 1 || !m.running {
		t.Errorf("reset left head=%d speed=%d running=%v", m.playHead, m.speed, m.running)
	}
}

func TestViewShowsIndicators(t *testing.T) {
	m := press(*replayFixture(t), "}", "tab")
	if m.selected != 1 {
		t.Fatalf("selected %d, want 1", m.selected)
	}

	view := m.View()
	for _, want := range []string{"Population", "Life expectancy", "Pollution index", "1910.0", "bn"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	help := press(m, "?").View()
	if !strings.Contains(help, "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not rendered")
	}
}

func TestQuitReturnsCommand(t *testing.T) {
	_, cmd := replayFixture(t).Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestSparklineWidth(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline %q", got)
	}
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if n := utf8.RuneCountInString(SparklineChart(values, 4)); n != 4 {
		t.Errorf("sparkline has %d glyphs, want 4", n)
	}
}
