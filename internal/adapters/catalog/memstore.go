package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/stagescape/radial/internal/domain/blend"
	"github.com/stagescape/radial/internal/domain/chart"
)

//go:embed sample.yaml
var sampleDataset []byte

// dataset mirrors the YAML schema of a dataset file.
type dataset struct {
	Range    rangeSpec         `koanf:"range"`
	Axes     []axisSpec        `koanf:"axes"`
	Colors   map[string]string `koanf:"colors"`
	Subjects []subjectSpec     `koanf:"subjects"`
}

type rangeSpec struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

type axisSpec struct {
	Key   string `koanf:"key"`
	Label string `koanf:"label"`
	Group string `koanf:"group"`
}

type subjectSpec struct {
	Name      string         `koanf:"name"`
	Snapshots []snapshotSpec `koanf:"snapshots"`
}

type snapshotSpec struct {
	Year string `koanf:"year"`
	// Scores maps axis key to score. A key set to null, or left out
	// entirely, is an absent score and stays absent through the engine.
	Scores map[string]*float64 `koanf:"scores"`
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithDatasetPath loads the dataset from a YAML file instead of the
// embedded sample.
func WithDatasetPath(path string) Option {
	return func(s *MemStore) {
		s.path = path
	}
}

// MemStore is an immutable in-memory catalog loaded from YAML.
type MemStore struct {
	path string

	axes     []chart.Axis
	colors   blend.Map
	scoreRng chart.Range
	series   map[string]chart.Series
	names    []string
}

// bytesProvider adapts raw bytes to the koanf Provider interface.
type bytesProvider struct{ b []byte }

func (p bytesProvider) ReadBytes() ([]byte, error) { return p.b, nil }
func (p bytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("%w: bytes provider does not support Read", ErrLoadDataset)
}

// NewMemStore loads and validates a dataset. Without WithDatasetPath it
// serves the embedded sample.
func NewMemStore(opts ...Option) (*MemStore, error) {
	s := &MemStore{}
	for _, opt := range opts {
		opt(s)
	}

	k := koanf.New(".")
	if s.path != "" {
		if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
		}
	} else {
		if err := k.Load(bytesProvider{b: sampleDataset}, yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
		}
	}

	var ds dataset
	if err := k.UnmarshalWithConf("", &ds, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	if err := s.build(ds); err != nil {
		return nil, err
	}
	return s, nil
}

// build converts the raw dataset into domain objects and validates it.
func (s *MemStore) build(ds dataset) error {
	if len(ds.Axes) == 0 {
		s.axes = chart.DefaultAxes()
	} else {
		s.axes = make([]chart.Axis, len(ds.Axes))
		for i, a := range ds.Axes {
			if a.Key == "" || a.Group == "" {
				return fmt.Errorf("%w: axis %d needs key and group", ErrBadDataset, i)
			}
			s.axes[i] = chart.Axis{Key: a.Key, Label: a.Label, Group: chart.Group(a.Group)}
		}
	}

	if ds.Range.Max > ds.Range.Min {
		s.scoreRng = chart.Range{Min: ds.Range.Min, Max: ds.Range.Max}
	} else {
		s.scoreRng = chart.DefaultRange
	}

	s.colors = blend.DefaultMap()
	for g, hex := range ds.Colors {
		c, err := blend.Hex(hex)
		if err != nil {
			return fmt.Errorf("%w: group %q: %w", ErrBadDataset, g, err)
		}
		s.colors[chart.Group(g)] = c
	}

	s.series = make(map[string]chart.Series, len(ds.Subjects))
	for _, sub := range ds.Subjects {
		if sub.Name == "" {
			return fmt.Errorf("%w: subject with empty name", ErrBadDataset)
		}
		if _, dup := s.series[sub.Name]; dup {
			return fmt.Errorf("%w: duplicate subject %q", ErrBadDataset, sub.Name)
		}
		if len(sub.Snapshots) == 0 {
			return fmt.Errorf("%w: subject %q has no snapshots", ErrBadDataset, sub.Name)
		}
		ser := chart.Series{Subject: sub.Name, Snapshots: make([]chart.Snapshot, len(sub.Snapshots))}
		for i, snap := range sub.Snapshots {
			vec := make(chart.ScoreVector, len(s.axes))
			for _, ax := range s.axes {
				// Absent or null keys become explicit absent scores so
				// every vector covers the full instrument key set.
				if v, ok := snap.Scores[ax.Key]; ok && v != nil {
					if err := s.scoreRng.Validate(*v); err != nil {
						return fmt.Errorf("%w: subject %q year %q axis %q: %w", ErrBadDataset, sub.Name, snap.Year, ax.Key, err)
					}
					vec[ax.Key] = chart.SomeScore(*v)
				} else {
					vec[ax.Key] = chart.NoScore()
				}
			}
			for key := range snap.Scores {
				if !s.hasAxis(key) {
					return fmt.Errorf("%w: subject %q year %q: %w: %q", ErrBadDataset, sub.Name, snap.Year, chart.ErrUnknownAxisKey, key)
				}
			}
			ser.Snapshots[i] = chart.Snapshot{TimeLabel: snap.Year, Scores: vec}
		}
		if err := ser.Validate(s.axes); err != nil {
			return fmt.Errorf("%w: subject %q: %w", ErrBadDataset, sub.Name, err)
		}
		s.series[sub.Name] = ser
		s.names = append(s.names, sub.Name)
	}
	sort.Strings(s.names)
	return nil
}

func (s *MemStore) hasAxis(key string) bool {
	for _, ax := range s.axes {
		if ax.Key == key {
			return true
		}
	}
	return false
}

// Axes returns the instrument's axes in their fixed angular order.
func (s *MemStore) Axes() []chart.Axis { return s.axes }

// Colors returns the group palette.
func (s *MemStore) Colors() blend.Map { return s.colors }

// Range returns the closed score range.
func (s *MemStore) Range() chart.Range { return s.scoreRng }

// Subjects lists subject names in sorted order.
func (s *MemStore) Subjects(_ context.Context) []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Series returns a subject's time series.
func (s *MemStore) Series(_ context.Context, subject string) (chart.Series, error) {
	ser, ok := s.series[subject]
	if !ok {
		return chart.Series{}, fmt.Errorf("%w: %q", ErrNotFound, subject)
	}
	return ser, nil
}

// Count returns the number of subjects in the catalog.
func (s *MemStore) Count(_ context.Context) int { return len(s.series) }
