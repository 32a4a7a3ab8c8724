package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotswarm/dotswarm/pkg/board"
	"github.com/dotswarm/dotswarm/pkg/filter"
	"github.com/dotswarm/dotswarm/pkg/sim"
)

// frameRate is the simulation and redraw cadence of the interactive view.
const frameRate = 30

// thresholdSteps is how many arrow-key presses span a filter's full range.
const thresholdSteps = 20

// tickMsg drives one simulation step per frame.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// =============================================================================
// BoardModel - Interactive board view
// =============================================================================

// BoardModel is the bubbletea model for the interactive board. Mouse events
// drag markers, number keys select a filter, arrow keys move its threshold.
type BoardModel struct {
	board *board.Board

	width  int // terminal columns
	height int // terminal rows

	dragID   int // entity under the pointer, -1 when idle
	selected int // filter attribute the arrow keys adjust

	hover string // label of the marker under the pointer
}

// NewBoardModel creates the interactive model around a constructed board.
func NewBoardModel(b *board.Board) BoardModel {
	return BoardModel{board: b, dragID: -1}
}

func (m BoardModel) Init() tea.Cmd {
	return tickCmd()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.board.Tick()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "1", "2", "3":
			m.selected = int(msg.String()[0] - '1')
		case "left", "h":
			m.nudgeThreshold(-1)
		case "right", "l":
			m.nudgeThreshold(+1)
		case "r":
			m.board.ResetThresholds()
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// nudgeThreshold moves the selected filter's maximum by one step of its range.
func (m *BoardModel) nudgeThreshold(dir int) {
	attr := m.board.Filters()[m.selected]
	step := (attr.Ceil - attr.Min) / thresholdSteps
	if step <= 0 {
		return
	}
	m.board.SetThreshold(m.selected, attr.Max+float64(dir)*step)
}

// handleMouse maps terminal cells to board units and routes drag commands.
func (m BoardModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	bx, by, ok := m.toBoard(msg.X, msg.Y)
	if !ok {
		return m, nil
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if marker, hit := m.board.MarkerAt(bx, by); hit {
			m.dragID = marker.ID
			m.hover = marker.Label
			m.board.StartDrag(marker.ID, bx, by)
		}
	case msg.Action == tea.MouseActionMotion:
		if m.dragID >= 0 {
			m.board.MoveDrag(m.dragID, bx, by)
		} else if marker, hit := m.board.MarkerAt(bx, by); hit {
			m.hover = marker.Label
		} else {
			m.hover = ""
		}
	case msg.Action == tea.MouseActionRelease:
		if m.dragID >= 0 {
			m.board.EndDrag(m.dragID)
			m.dragID = -1
		}
	}
	return m, nil
}

// canvasSize returns the character grid reserved for the board, leaving
// room for the status lines below.
func (m BoardModel) canvasSize() (cols, rows int) {
	cols = m.width
	rows = m.height - 3
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// toBoard converts a terminal cell to board units. Terminal cells are about
// twice as tall as wide, which the row scale absorbs.
func (m BoardModel) toBoard(col, row int) (float64, float64, bool) {
	cols, rows := m.canvasSize()
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	bw, bh := m.board.Size()
	return (float64(col) + 0.5) * bw / float64(cols), (float64(row) + 0.5) * bh / float64(rows), true
}

// =============================================================================
// View
// =============================================================================

var (
	tuiBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
	tuiLabelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	tuiPinStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

func (m BoardModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	cols, rows := m.canvasSize()
	frame := m.board.Snapshot()
	legend := m.board.Legend()

	canvas := make([][]string, rows)
	for y := range canvas {
		canvas[y] = make([]string, cols)
		for x := range canvas[y] {
			canvas[y][x] = " "
		}
	}

	sx := float64(cols) / frame.Width
	sy := float64(rows) / frame.Height

	for _, c := range frame.Cells {
		drawCell(canvas, c, sx, sy)
	}
	for _, marker := range frame.Markers {
		drawMarker(canvas, marker, legend, sx, sy)
	}

	var b strings.Builder
	for _, line := range canvas {
		b.WriteString(strings.Join(line, ""))
		b.WriteString("\n")
	}
	b.WriteString(m.filterBar())
	b.WriteString("\n")
	b.WriteString(m.helpBar())
	return b.String()
}

// drawCell plots one group rectangle with its key in the top border.
func drawCell(canvas [][]string, c board.Cell, sx, sy float64) {
	x0 := int((c.CenterX - c.HalfWidth) * sx)
	x1 := int((c.CenterX + c.HalfWidth) * sx)
	y0 := int((c.CenterY - c.HalfHeight) * sy)
	y1 := int((c.CenterY + c.HalfHeight) * sy)

	for x := x0; x <= x1; x++ {
		put(canvas, x, y0, tuiBorderStyle.Render("─"))
		put(canvas, x, y1, tuiBorderStyle.Render("─"))
	}
	for y := y0; y <= y1; y++ {
		put(canvas, x0, y, tuiBorderStyle.Render("│"))
		put(canvas, x1, y, tuiBorderStyle.Render("│"))
	}
	put(canvas, x0, y0, tuiBorderStyle.Render("╭"))
	put(canvas, x1, y0, tuiBorderStyle.Render("╮"))
	put(canvas, x0, y1, tuiBorderStyle.Render("╰"))
	put(canvas, x1, y1, tuiBorderStyle.Render("╯"))

	label := []rune(" " + c.Key + " ")
	for i, r := range label {
		put(canvas, x0+2+i, y0, tuiLabelStyle.Render(string(r)))
	}
}

// drawMarker plots one circle as a glyph bucketed by radius. Unmatched
// markers are drawn faint in their dim category color; pinned markers are
// highlighted so a grab is visible.
func drawMarker(canvas [][]string, marker sim.Marker, legend board.Legend, sx, sy float64) {
	x := int(marker.X * sx)
	y := int(marker.Y * sy)
	glyph := glyphFor(marker.Radius)

	switch {
	case marker.Pinned:
		put(canvas, x, y, tuiPinStyle.Render(glyph))
	case !marker.Matched:
		dim := legend.DimColors[marker.Category]
		put(canvas, x, y, lipgloss.NewStyle().Foreground(lipgloss.Color(dim)).Faint(true).Render(glyph))
	default:
		put(canvas, x, y, lipgloss.NewStyle().Foreground(lipgloss.Color(marker.Color)).Render(glyph))
	}
}

func put(canvas [][]string, x, y int, s string) {
	if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
		return
	}
	canvas[y][x] = s
}

// filterBar renders the three filter attributes with the selected one
// highlighted and each current maximum shown against its ceiling.
func (m BoardModel) filterBar() string {
	attrs := m.board.Filters()
	parts := make([]string, 0, filter.AttrCount)
	for i, a := range attrs {
		text := fmt.Sprintf("[%d] %s ≤ %.1f/%.1f", i+1, a.Name, a.Max, a.Ceil)
		if i == m.selected {
			parts = append(parts, StyleTitle.Render(text))
		} else {
			parts = append(parts, StyleDim.Render(text))
		}
	}
	bar := strings.Join(parts, StyleDim.Render("  ·  "))
	if m.hover != "" {
		bar += StyleDim.Render("  ·  ") + StyleValue.Render(m.hover)
	}
	return bar
}

func (m BoardModel) helpBar() string {
	return StyleDim.Render("drag: move circles  1/2/3: select filter  ←/→: threshold  r: reset  q: quit")
}

// glyphFor buckets a radius into a display glyph.
func glyphFor(radius float64) string {
	switch {
	case radius < 5:
		return "·"
	case radius < 8:
		return "o"
	case radius < 11:
		return "O"
	default:
		return "@"
	}
}
