package schema

import (
	"fmt"
	"sort"
)

// Declared metric types.
const (
	TypeCount = "count"
	TypeGauge = "gauge"
	TypeTimer = "timer"
)

// Schema maps metric names to their declared type and dimension set.
type Schema map[string]Entry

// Entry declares how a single metric is exported.
type Entry struct {
	Type             string
	Dimensions       []string // sorted, unique
	Help             string
	ConversionFactor float64 // timer values are divided by this before observation
}

// Names returns all metric names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rawEntry mirrors one entry of the schema document.
type rawEntry struct {
	Type             string   `yaml:"type"`
	Dimensions       []string `yaml:"dimensions"`
	Help             string   `yaml:"help,omitempty"`
	ConversionFactor *float64 `yaml:"conversionFactor,omitempty"`
}

// resolve converts raw document entries into a Schema.
func resolve(raw map[string]rawEntry) (Schema, error) {
	s := make(Schema, len(raw))
	for name, re := range raw {
		if name == "" {
			return nil, fmt.Errorf("metric name cannot be empty")
		}

		dims, err := dimensionSet(re.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", name, err)
		}

		factor := 1.0
		if re.ConversionFactor != nil && *re.ConversionFactor != 0 {
			factor = *re.ConversionFactor
		}
		if factor < 0 {
			return nil, fmt.Errorf("metric %q: conversionFactor must be positive, got %v", name, factor)
		}

		s[name] = Entry{
			Type:             re.Type,
			Dimensions:       dims,
			Help:             re.Help,
			ConversionFactor: factor,
		}
	}
	return s, nil
}

// dimensionSet sorts and deduplicates dimension names.
func dimensionSet(dims []string) ([]string, error) {
	seen := make(map[string]struct{}, len(dims))
	out := make([]string, 0, len(dims))
	for _, d := range dims {
		if d == "" {
			return nil, fmt.Errorf("dimension name cannot be empty")
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
