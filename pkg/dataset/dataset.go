// Package dataset loads the CSV input that feeds the board.
//
// A [Spec] maps CSV columns to roles (group, category, size, three filter
// attributes, label); [Load] parses the rows against it. Dataset-load
// failure is the one fatal condition in the system: an empty or malformed
// file aborts before any scale, group, or entity is constructed. Bad
// values inside an otherwise valid dataset are non-fatal: a non-numeric
// size or filter cell becomes NaN and downstream consumers substitute the
// minimum radius or the attribute's global minimum.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/dotswarm/dotswarm/pkg/errors"
)

// FilterCount is the number of filterable attributes per row.
const FilterCount = 3

// Row is one parsed dataset record.
type Row struct {
	Index    int    // position in the file, used as the entity ID
	Group    string // cell assignment
	Category string // color assignment
	Label    string // display name

	Size    float64              // raw size value, NaN if missing/non-numeric
	Filters [FilterCount]float64 // raw filter values, NaN if missing/non-numeric
}

// Dataset is a fully loaded, immutable data file.
type Dataset struct {
	Spec Spec
	Rows []Row
}

// AttrStats summarizes one numeric attribute over the whole dataset,
// ignoring NaN cells.
type AttrStats struct {
	Min  float64
	Mean float64
	Max  float64
}

// LoadFile opens and parses a CSV dataset.
func LoadFile(path string, spec Spec) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := Load(f, spec)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Load parses CSV data against the spec. The first record must be a
// header row naming every spec column. At least one data row is required.
func Load(r io.Reader, spec Spec) (*Dataset, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "dataset is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read header")
	}

	cols, err := resolveColumns(header, spec)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read row %d", len(rows)+1)
		}
		row := Row{
			Index:    len(rows),
			Group:    record[cols.group],
			Category: record[cols.category],
			Label:    record[cols.label],
			Size:     parseNumber(record[cols.size]),
		}
		for i, c := range cols.filters {
			row.Filters[i] = parseNumber(record[c])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no data rows")
	}
	return &Dataset{Spec: spec, Rows: rows}, nil
}

// Groups returns the distinct group keys, sorted.
func (d *Dataset) Groups() []string {
	return d.distinct(func(r Row) string { return r.Group })
}

// Categories returns the distinct category values, sorted.
func (d *Dataset) Categories() []string {
	return d.distinct(func(r Row) string { return r.Category })
}

func (d *Dataset) distinct(key func(Row) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.Rows {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// SizeStats summarizes the size attribute.
func (d *Dataset) SizeStats() AttrStats {
	return summarize(d.values(func(r Row) float64 { return r.Size }))
}

// FilterStats summarizes filter attribute i.
func (d *Dataset) FilterStats(i int) AttrStats {
	return summarize(d.values(func(r Row) float64 { return r.Filters[i] }))
}

// FilterNames returns the three filter column names as a fixed-size array.
func (d *Dataset) FilterNames() [FilterCount]string {
	var names [FilterCount]string
	copy(names[:], d.Spec.Filters)
	return names
}

func (d *Dataset) values(get func(Row) float64) []float64 {
	vals := make([]float64, 0, len(d.Rows))
	for _, r := range d.Rows {
		if v := get(r); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func summarize(vals []float64) AttrStats {
	if len(vals) == 0 {
		return AttrStats{}
	}
	return AttrStats{
		Min:  slices.Min(vals),
		Mean: stat.Mean(vals, nil),
		Max:  slices.Max(vals),
	}
}

type columns struct {
	group, category, size, label int
	filters                      [FilterCount]int
}

func resolveColumns(header []string, spec Spec) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidColumn, "column %q not in header", name)
		}
		return i, nil
	}

	var cols columns
	var err error
	if cols.group, err = lookup(spec.Group); err != nil {
		return columns{}, err
	}
	if cols.category, err = lookup(spec.Category); err != nil {
		return columns{}, err
	}
	if cols.size, err = lookup(spec.Size); err != nil {
		return columns{}, err
	}
	if cols.label, err = lookup(spec.Label); err != nil {
		return columns{}, err
	}
	for i, name := range spec.Filters {
		if cols.filters[i], err = lookup(name); err != nil {
			return columns{}, err
		}
	}
	return cols, nil
}

// parseNumber converts a CSV cell to a float64, with NaN for anything
// unparseable. Bad cells are recoverable; the scales and filters fall back
// per value.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
