package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dotswarm/dotswarm/pkg/board"
	"github.com/dotswarm/dotswarm/pkg/dataset"
)

const testCSV = `name,habitat,family,mass_g,height_cm,spread_cm,age_y
Oak,forest,Fagaceae,120,300,150,80
Pine,forest,Pinaceae,90,250,100,60
Heather,moor,Ericaceae,5,40,30,10
Moss,bog,Bryophyta,1,2,10,3
`

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	d, err := dataset.Load(strings.NewReader(testCSV), dataset.Spec{
		Group:    "habitat",
		Category: "family",
		Size:     "mass_g",
		Filters:  []string{"height_cm", "spread_cm", "age_y"},
		Label:    "name",
	})
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	b, err := board.New(d, board.DefaultConfig())
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return b
}

func TestBoardModelTickAdvances(t *testing.T) {
	m := NewBoardModel(testBoard(t))

	updated, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("tick did not schedule the next frame")
	}
	if _, ok := updated.(BoardModel); !ok {
		t.Fatalf("Update returned %T, want BoardModel", updated)
	}
}

func TestBoardModelQuitKeys(t *testing.T) {
	m := NewBoardModel(testBoard(t))

	for _, key := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q did not produce a command", key)
			continue
		}
		if cmd() != tea.Quit() {
			t.Errorf("key %q did not quit", key)
		}
	}
}

func TestBoardModelFilterSelection(t *testing.T) {
	m := NewBoardModel(testBoard(t))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if bm := updated.(BoardModel); bm.selected != 2 {
		t.Errorf("selected = %d, want 2", bm.selected)
	}
}

func TestBoardModelThresholdNudge(t *testing.T) {
	b := testBoard(t)
	m := NewBoardModel(b)
	m.width, m.height = 120, 40

	before := b.Filters()[0].Max
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	after := b.Filters()[0].Max
	if after >= before {
		t.Errorf("threshold did not decrease: %v -> %v", before, after)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if got := b.Filters()[0].Max; got != before {
		t.Errorf("reset: max = %v, want %v", got, before)
	}
}

func TestBoardModelMouseDrag(t *testing.T) {
	b := testBoard(t)
	m := NewBoardModel(b)
	m.width, m.height = 120, 40

	// Find a marker and press on its terminal cell.
	frame := b.Snapshot()
	target := frame.Markers[0]
	cols, rows := m.canvasSize()
	col := int(target.X / frame.Width * float64(cols))
	row := int(target.Y / frame.Height * float64(rows))

	updated, _ := m.Update(tea.MouseMsg{
		X: col, Y: row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	bm := updated.(BoardModel)
	if bm.dragID < 0 {
		t.Skip("press landed between markers at this terminal size")
	}

	updated, _ = bm.Update(tea.MouseMsg{X: col + 1, Y: row, Action: tea.MouseActionMotion})
	bm = updated.(BoardModel)

	updated, _ = bm.Update(tea.MouseMsg{X: col + 1, Y: row, Action: tea.MouseActionRelease})
	bm = updated.(BoardModel)
	if bm.dragID != -1 {
		t.Errorf("dragID after release = %d, want -1", bm.dragID)
	}
}

func TestToBoardBounds(t *testing.T) {
	m := NewBoardModel(testBoard(t))
	m.width, m.height = 120, 40

	if _, _, ok := m.toBoard(-1, 5); ok {
		t.Error("negative column accepted")
	}
	if _, _, ok := m.toBoard(5, 1000); ok {
		t.Error("row beyond canvas accepted")
	}

	bx, by, ok := m.toBoard(0, 0)
	if !ok {
		t.Fatal("origin rejected")
	}
	if bx < 0 || by < 0 {
		t.Errorf("origin mapped to negative board point (%v, %v)", bx, by)
	}
}

func TestViewRendersStatusBars(t *testing.T) {
	m := NewBoardModel(testBoard(t))
	m.width, m.height = 120, 40

	view := m.View()
	if !strings.Contains(view, "height_cm") {
		t.Error("filter bar missing attribute name")
	}
	if !strings.Contains(view, "q: quit") {
		t.Error("help bar missing")
	}
	for _, key := range []string{"bog", "forest", "moor"} {
		if !strings.Contains(view, key) {
			t.Errorf("view missing cell label %q", key)
		}
	}
}

func TestGlyphBuckets(t *testing.T) {
	tests := []struct {
		radius float64
		want   string
	}{
		{3, "·"},
		{6, "o"},
		{9, "O"},
		{14, "@"},
	}
	for _, tt := range tests {
		if got := glyphFor(tt.radius); got != tt.want {
			t.Errorf("glyphFor(%v) = %q, want %q", tt.radius, got, tt.want)
		}
	}
}
