package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dotswarm/dotswarm/pkg/board"
)

// document is the JSON layout format: the frame plus optional legend
// material, versioned for forward compatibility.
type document struct {
	Version int         `json:"version"`
	Frame   board.Frame `json:"frame"`
	Legend  *legendDoc  `json:"legend,omitempty"`
}

type legendDoc struct {
	Colors map[string]string `json:"colors"`
	Sizes  []sizeSample      `json:"sizes"`
}

type sizeSample struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Radius float64 `json:"radius"`
}

const formatVersion = 1

// JSONOption configures the JSON sink.
type JSONOption func(*document)

// WithJSONLegend embeds the legend in the document.
func WithJSONLegend(l board.Legend) JSONOption {
	return func(d *document) {
		ld := &legendDoc{Colors: l.Colors}
		for _, s := range l.Sizes {
			ld.Sizes = append(ld.Sizes, sizeSample{Label: s.Label, Value: s.Value, Radius: s.Radius})
		}
		d.Legend = ld
	}
}

// MarshalJSON renders a frame to indented JSON bytes. Markers are already
// sorted by ID in the frame, so output is deterministic.
func MarshalJSON(frame board.Frame, opts ...JSONOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, frame, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the frame document to w.
func WriteJSON(w io.Writer, frame board.Frame, opts ...JSONOption) error {
	doc := document{Version: formatVersion, Frame: frame}
	for _, opt := range opts {
		opt(&doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSONFile writes the frame document to a file with 0644 permissions.
func WriteJSONFile(path string, frame board.Frame, opts ...JSONOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, frame, opts...)
}
