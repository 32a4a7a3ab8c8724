package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dotswarm/dotswarm/pkg/board"
	"github.com/dotswarm/dotswarm/pkg/scale"
	"github.com/dotswarm/dotswarm/pkg/sim"
)

func testFrame() board.Frame {
	return board.Frame{
		Width:  300,
		Height: 240,
		Cells: []board.Cell{
			{Key: "forest", CenterX: 150, CenterY: 120, HalfWidth: 130, HalfHeight: 110},
		},
		Markers: []sim.Marker{
			{ID: 0, Label: "Oak", Category: "Fagaceae", X: 140, Y: 100, Radius: 14, Color: "#1f77b4", Matched: true},
			{ID: 1, Label: "Pine & Fir", Category: "Pinaceae", X: 180, Y: 150, Radius: 9, Color: "#ff7f0e", Matched: false},
		},
	}
}

func testLegend() board.Legend {
	return board.Legend{
		Colors:    map[string]string{"Fagaceae": "#1f77b4", "Pinaceae": "#ff7f0e"},
		DimColors: map[string]string{"Fagaceae": "#8899aa", "Pinaceae": "#aa9988"},
		Sizes: []scale.LegendSample{
			{Label: "min", Value: 1, Radius: 3},
			{Label: "max", Value: 120, Radius: 14},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithLegend(testLegend()), WithTitle("Trees")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`forest`,
		`cx="140.00" cy="100.00" r="14.00" fill="#1f77b4"`,
		`Trees`,
		`Categories`,
		`</svg>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// The unmatched marker is dimmed, not hidden.
	if !strings.Contains(svg, `fill="#aa9988" fill-opacity="0.35"`) {
		t.Error("unmatched marker not rendered dimmed")
	}
	if strings.Contains(svg, `Pine & Fir<`) {
		t.Error("unescaped ampersand in marker label")
	}
	if !strings.Contains(svg, "Pine &amp; Fir") {
		t.Error("escaped label missing")
	}
}

func TestRenderSVGWithoutOptions(t *testing.T) {
	svg := string(RenderSVG(testFrame()))
	if strings.Contains(svg, "Categories") {
		t.Error("legend rendered without WithLegend")
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("truncated SVG")
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(testFrame(), WithJSONLegend(testLegend()))
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var doc struct {
		Version int `json:"version"`
		Frame   struct {
			Cells   []board.Cell `json:"cells"`
			Markers []sim.Marker `json:"markers"`
		} `json:"frame"`
		Legend *struct {
			Colors map[string]string `json:"colors"`
		} `json:"legend"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Version)
	}
	if len(doc.Frame.Markers) != 2 || doc.Frame.Markers[0].Label != "Oak" {
		t.Errorf("markers = %+v", doc.Frame.Markers)
	}
	if doc.Legend == nil || doc.Legend.Colors["Fagaceae"] != "#1f77b4" {
		t.Errorf("legend = %+v", doc.Legend)
	}
}

func TestJSONDeterministic(t *testing.T) {
	a, err := MarshalJSON(testFrame())
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalJSON(testFrame())
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("JSON output differs across identical frames")
	}
}
