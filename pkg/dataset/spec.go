package dataset

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/dotswarm/dotswarm/pkg/errors"
)

// Spec names the dataset columns by role. It is usually loaded from a TOML
// file next to the data:
//
//	group    = "habitat"
//	category = "family"
//	size     = "mass_g"
//	filters  = ["height_cm", "spread_cm", "age_y"]
//	label    = "name"
type Spec struct {
	Group    string   `toml:"group"`    // column partitioning entities into cells
	Category string   `toml:"category"` // column driving marker color
	Size     string   `toml:"size"`     // numeric column driving marker radius
	Filters  []string `toml:"filters"`  // exactly three numeric filter columns
	Label    string   `toml:"label"`    // display name column
}

// LoadSpec reads a column spec from a TOML file.
func LoadSpec(path string) (Spec, error) {
	var s Spec
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse spec %s", path)
	}
	if err := s.Validate(); err != nil {
		return Spec{}, fmt.Errorf("spec %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every role has a column name and that exactly three
// filter columns are given.
func (s Spec) Validate() error {
	for _, f := range []struct{ role, col string }{
		{"group", s.Group},
		{"category", s.Category},
		{"size", s.Size},
		{"label", s.Label},
	} {
		if f.col == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "missing %s column", f.role)
		}
	}
	if len(s.Filters) != FilterCount {
		return errors.New(errors.ErrCodeInvalidSpec,
			"need exactly %d filter columns, got %d", FilterCount, len(s.Filters))
	}
	for i, col := range s.Filters {
		if col == "" {
			return errors.New(errors.ErrCodeInvalidSpec, "filter column %d is empty", i)
		}
	}
	return nil
}
