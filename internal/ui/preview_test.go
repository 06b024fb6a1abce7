package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

func testModel() PreviewModel {
	rects := []geometry.Rectangle{
		geometry.NewRect(geom.Coord{X: -1, Y: 0}, geom.Coord{X: 1.72, Y: 1.29}),
		geometry.NewRect(geom.Coord{X: 1, Y: 0}, geom.Coord{X: 1.72, Y: 1.29}),
	}
	centers := []geom.Coord{{X: -1, Y: 0}, {X: 1, Y: 0}}
	return NewPreviewModel("NAC mosaic of EUROPA", units.Deg, 3, nil, rects, centers)
}

func TestPreviewViewSmallTerminal(t *testing.T) {
	m := testModel()
	if view := m.View(); !strings.Contains(view, "larger terminal") {
		t.Errorf("zero-size view should ask for a larger terminal, got %q", view)
	}
}

func TestPreviewViewRenders(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(PreviewModel)

	view := m.View()
	if !strings.Contains(view, "NAC mosaic of EUROPA") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "frame 1/2") {
		t.Error("view missing frame counter")
	}
	if lines := strings.Count(view, "\n"); lines < 10 {
		t.Errorf("view has %d lines, want a full canvas", lines)
	}
}

func TestPreviewFocusStepping(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(PreviewModel)

	right := tea.KeyMsg{Type: tea.KeyRight}
	updated, _ = m.Update(right)
	m = updated.(PreviewModel)
	if m.focusIdx != 1 {
		t.Errorf("focusIdx = %d after right, want 1", m.focusIdx)
	}
	// Stepping wraps.
	updated, _ = m.Update(right)
	m = updated.(PreviewModel)
	if m.focusIdx != 0 {
		t.Errorf("focusIdx = %d after wrap, want 0", m.focusIdx)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(PreviewModel)
	if m.focusIdx != 1 {
		t.Errorf("focusIdx = %d after left, want 1", m.focusIdx)
	}
}

func TestPreviewQuitKeys(t *testing.T) {
	m := testModel()
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch key {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %s should quit", key)
		}
	}
}
