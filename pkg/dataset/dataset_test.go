package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotswarm/dotswarm/pkg/errors"
)

func testSpec() Spec {
	return Spec{
		Group:    "habitat",
		Category: "family",
		Size:     "mass_g",
		Filters:  []string{"height_cm", "spread_cm", "age_y"},
		Label:    "name",
	}
}

const testCSV = `name,habitat,family,mass_g,height_cm,spread_cm,age_y
Oak,forest,Fagaceae,120,300,150,80
Pine,forest,Pinaceae,90,250,100,60
Heather,moor,Ericaceae,5,40,30,10
Gorse,moor,Fabaceae,8,90,80,15
Birch,forest,Betulaceae,60,200,90,40
`

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(testCSV), testSpec())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Rows) != 5 {
		t.Fatalf("len(Rows) = %d, want 5", len(d.Rows))
	}

	oak := d.Rows[0]
	if oak.Label != "Oak" || oak.Group != "forest" || oak.Category != "Fagaceae" {
		t.Errorf("row 0 = %+v", oak)
	}
	if oak.Size != 120 {
		t.Errorf("row 0 size = %v, want 120", oak.Size)
	}
	if oak.Filters != [FilterCount]float64{300, 150, 80} {
		t.Errorf("row 0 filters = %v", oak.Filters)
	}
	if oak.Index != 0 || d.Rows[4].Index != 4 {
		t.Error("row indices not assigned in file order")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		code errors.Code
	}{
		{"EmptyFile", "", errors.ErrCodeEmptyDataset},
		{"HeaderOnly", "name,habitat,family,mass_g,height_cm,spread_cm,age_y\n", errors.ErrCodeEmptyDataset},
		{"MissingColumn", "name,habitat,family,mass_g,height_cm,spread_cm\nOak,f,F,1,2,3\n", errors.ErrCodeInvalidColumn},
		{"RaggedRow", testCSV + "Willow,wet\n", errors.ErrCodeInvalidDataset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv), testSpec())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadNonNumericCellsAreNaN(t *testing.T) {
	csv := `name,habitat,family,mass_g,height_cm,spread_cm,age_y
Oak,forest,Fagaceae,not-a-number,300,,80
`
	d, err := Load(strings.NewReader(csv), testSpec())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !math.IsNaN(d.Rows[0].Size) {
		t.Errorf("size = %v, want NaN", d.Rows[0].Size)
	}
	if !math.IsNaN(d.Rows[0].Filters[1]) {
		t.Errorf("empty filter cell = %v, want NaN", d.Rows[0].Filters[1])
	}
	if d.Rows[0].Filters[0] != 300 {
		t.Errorf("good filter cell = %v, want 300", d.Rows[0].Filters[0])
	}
}

func TestGroupsAndCategories(t *testing.T) {
	d, err := Load(strings.NewReader(testCSV), testSpec())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	groups := d.Groups()
	if len(groups) != 2 || groups[0] != "forest" || groups[1] != "moor" {
		t.Errorf("Groups() = %v", groups)
	}
	cats := d.Categories()
	if len(cats) != 5 {
		t.Errorf("Categories() = %v, want 5 sorted families", cats)
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("Categories() not sorted: %v", cats)
		}
	}
}

func TestStats(t *testing.T) {
	d, err := Load(strings.NewReader(testCSV), testSpec())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	size := d.SizeStats()
	if size.Min != 5 || size.Max != 120 {
		t.Errorf("SizeStats = %+v, want Min 5 Max 120", size)
	}
	wantMean := (120.0 + 90 + 5 + 8 + 60) / 5
	if math.Abs(size.Mean-wantMean) > 1e-9 {
		t.Errorf("SizeStats.Mean = %v, want %v", size.Mean, wantMean)
	}

	h := d.FilterStats(0)
	if h.Min != 40 || h.Max != 300 {
		t.Errorf("FilterStats(0) = %+v, want Min 40 Max 300", h)
	}
}

func TestStatsIgnoreNaN(t *testing.T) {
	csv := `name,habitat,family,mass_g,height_cm,spread_cm,age_y
Oak,forest,Fagaceae,x,300,150,80
Pine,forest,Pinaceae,90,250,100,60
`
	d, err := Load(strings.NewReader(csv), testSpec())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	size := d.SizeStats()
	if size.Min != 90 || size.Max != 90 {
		t.Errorf("SizeStats = %+v, want the single numeric value", size)
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		ok     bool
	}{
		{"Valid", func(s *Spec) {}, true},
		{"NoGroup", func(s *Spec) { s.Group = "" }, false},
		{"NoCategory", func(s *Spec) { s.Category = "" }, false},
		{"NoSize", func(s *Spec) { s.Size = "" }, false},
		{"NoLabel", func(s *Spec) { s.Label = "" }, false},
		{"TwoFilters", func(s *Spec) { s.Filters = s.Filters[:2] }, false},
		{"EmptyFilterName", func(s *Spec) { s.Filters[2] = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidSpec) {
				t.Errorf("Validate() = %v, want INVALID_SPEC", err)
			}
		})
	}
}

func TestLoadSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.toml")
	content := `group = "habitat"
category = "family"
size = "mass_g"
filters = ["height_cm", "spread_cm", "age_y"]
label = "name"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if s.Group != "habitat" || s.Category != "family" {
		t.Errorf("spec = %+v", s)
	}
	if len(s.Filters) != 3 || s.Filters[2] != "age_y" {
		t.Errorf("Spec.Filters = %v", s.Filters)
	}
}

func TestLoadSpecBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.toml")
	if err := os.WriteFile(path, []byte("group = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSpec(path); !errors.Is(err, errors.ErrCodeInvalidSpec) {
		t.Errorf("error = %v, want INVALID_SPEC", err)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile("/nonexistent/data.csv", testSpec())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
