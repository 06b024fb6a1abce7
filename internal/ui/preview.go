// Package ui provides the terminal preview of planned observations using
// Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jbeda/geom"

	"github.com/litescript/ls-mosaics/internal/geometry"
	"github.com/litescript/ls-mosaics/internal/units"
)

const (
	// Terminal cells are roughly twice as tall as wide; stretch x to keep
	// the disk round.
	cellAspect = 2.0

	// Number of samples used to trace the disk limb.
	limbSamples = 256

	// Glyphs
	glyphLimb        = '·'
	glyphShape       = '✶'
	glyphCenter      = '✦'
	glyphFocusCenter = '◆'

	// Colors
	colorLimb       = "244" // medium gray
	colorShape      = "229" // bright gold
	colorFrame      = "60"  // muted purple
	colorFocusFrame = "135" // violet
	colorCenter     = "#d0c8ff"
	colorFocus      = "229"
	colorOrder      = "250"
)

// PreviewModel renders a planned observation: the target limb, the sunlit
// outline when one was used, and every frame footprint with its visit
// order.
type PreviewModel struct {
	width  int
	height int

	title       string
	angularUnit units.Angle

	diskDiameter float64          // apparent diameter, angular units
	shape        geometry.Polygon // nil when the plan ignored illumination
	rects        []geometry.Rectangle
	centers      []geom.Coord

	focusIdx  int
	showOrder bool
}

// NewPreviewModel creates a preview of a planned observation. The rects and
// centers must be in acquisition order and share the given angular unit
// with the disk diameter and shape.
func NewPreviewModel(title string, unit units.Angle, diskDiameter float64,
	shape geometry.Polygon, rects []geometry.Rectangle, centers []geom.Coord) PreviewModel {
	return PreviewModel{
		title:        title,
		angularUnit:  unit,
		diskDiameter: diskDiameter,
		shape:        shape,
		rects:        rects,
		centers:      centers,
		showOrder:    true,
	}
}

// Init implements tea.Model.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "tab":
			if len(m.rects) > 0 {
				m.focusIdx = (m.focusIdx + 1) % len(m.rects)
			}
		case "left", "h", "shift+tab":
			if len(m.rects) > 0 {
				m.focusIdx = (m.focusIdx - 1 + len(m.rects)) % len(m.rects)
			}
		case "o":
			m.showOrder = !m.showOrder
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m PreviewModel) View() string {
	if m.width < 30 || m.height < 12 {
		return "Preview requires a larger terminal"
	}

	viewHeight := m.height - 4
	canvas := m.renderCanvas(m.width, viewHeight)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m PreviewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorFocusFrame))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFrame))

	focus := ""
	if len(m.centers) > 0 {
		c := m.centers[m.focusIdx]
		focus = fmt.Sprintf("  frame %d/%d at (%.4f, %.4f) %s",
			m.focusIdx+1, len(m.centers), c.X, c.Y, m.angularUnit)
	}
	return titleStyle.Render(m.title) + dimStyle.Render(focus)
}

func (m PreviewModel) renderStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFrame))
	return dimStyle.Render("←/→ step frames · o order labels · q quit")
}

// worldBounds returns the region to display: the disk plus every frame,
// padded a little.
func (m PreviewModel) worldBounds() geom.Rect {
	r := m.diskDiameter / 2
	bounds := geom.Rect{Min: geom.Coord{X: -r, Y: -r}, Max: geom.Coord{X: r, Y: r}}
	for _, rect := range m.rects {
		rb := rect.Bounds()
		bounds.ExpandToContainCoord(rb.Min)
		bounds.ExpandToContainCoord(rb.Max)
	}
	pad := (bounds.Max.X - bounds.Min.X) * 0.05
	bounds.Min = bounds.Min.Minus(geom.Coord{X: pad, Y: pad})
	bounds.Max = bounds.Max.Plus(geom.Coord{X: pad, Y: pad})
	return bounds
}

// project maps a world coordinate to a canvas cell, preserving the angular
// aspect ratio.
func project(p geom.Coord, bounds geom.Rect, width, height int) (int, int, bool) {
	worldW := bounds.Max.X - bounds.Min.X
	worldH := bounds.Max.Y - bounds.Min.Y
	if worldW <= 0 || worldH <= 0 {
		return 0, 0, false
	}

	// One scale for both axes so the disk stays round.
	scale := float64(width) / (worldW * cellAspect)
	if s := float64(height) / worldH; s < scale {
		scale = s
	}

	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2
	x := float64(width)/2 + (p.X-cx)*scale*cellAspect
	y := float64(height)/2 - (p.Y-cy)*scale
	xi, yi := int(x), int(y)
	if xi < 0 || xi >= width || yi < 0 || yi >= height {
		return 0, 0, false
	}
	return xi, yi, true
}

func (m PreviewModel) renderCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	bounds := m.worldBounds()
	plot := func(p geom.Coord, glyph rune, color lipgloss.Color) {
		if x, y, ok := project(p, bounds, width, height); ok {
			canvas[y][x] = glyph
			colors[y][x] = color
		}
	}
	plotLine := func(a, b geom.Coord, glyph rune, color lipgloss.Color) {
		// Sample densely enough that adjacent cells connect.
		steps := 2 * (width + height)
		d := b.Minus(a)
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			plot(a.Plus(d.Times(t)), glyph, color)
		}
	}

	// Target limb.
	r := m.diskDiameter / 2
	for i := 0; i < limbSamples; i++ {
		theta := 2 * math.Pi * float64(i) / limbSamples
		plot(geom.Coord{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, glyphLimb, colorLimb)
	}

	// Sunlit outline.
	for i := range m.shape {
		a := m.shape[i]
		b := m.shape[(i+1)%len(m.shape)]
		plotLine(a, b, glyphShape, colorShape)
	}

	// Frame footprints, focused frame last so it wins overlaps.
	for i, rect := range m.rects {
		if i == m.focusIdx {
			continue
		}
		m.plotRect(rect, colorFrame, plotLine)
	}
	if len(m.rects) > 0 {
		m.plotRect(m.rects[m.focusIdx], colorFocusFrame, plotLine)
	}

	// Frame centers and visit order.
	for i, c := range m.centers {
		glyph, color := glyphCenter, lipgloss.Color(colorCenter)
		if i == m.focusIdx {
			glyph, color = glyphFocusCenter, lipgloss.Color(colorFocus)
		}
		plot(c, glyph, color)
		if m.showOrder {
			m.plotOrderLabel(canvas, colors, bounds, width, height, c, i+1)
		}
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m PreviewModel) plotRect(rect geometry.Rectangle,
	color lipgloss.Color, plotLine func(a, b geom.Coord, glyph rune, color lipgloss.Color)) {
	corners := rect.Corners()
	for i := range corners {
		plotLine(corners[i], corners[(i+1)%len(corners)], glyphLimb, color)
	}
}

// plotOrderLabel writes the visit number just right of the frame center.
func (m PreviewModel) plotOrderLabel(canvas [][]rune, colors [][]lipgloss.Color,
	bounds geom.Rect, width, height int, c geom.Coord, n int) {
	x, y, ok := project(c, bounds, width, height)
	if !ok {
		return
	}
	label := fmt.Sprintf("%d", n)
	for i, r := range label {
		lx := x + 1 + i
		if lx >= width {
			return
		}
		canvas[y][lx] = r
		colors[y][lx] = colorOrder
	}
}

// Run shows the preview full-screen until the user quits.
func Run(m PreviewModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
