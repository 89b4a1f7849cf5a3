package balance

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the stock balance table.
func Default() Table {
	raw, err := parseYAML(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("balance: embedded default.yaml: %v", err))
	}
	t, err := Normalize(raw)
	if err != nil {
		panic(fmt.Sprintf("balance: embedded default.yaml: %v", err))
	}
	return t
}

// Loader merges the embedded default with an optional override file.
type Loader struct {
	path string // override file; "" means default only

	mu     sync.RWMutex
	cached *Table
}

// NewLoader creates a loader for the given override path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the override file the loader reads.
func (l *Loader) Path() string { return l.path }

// LoadMerged reads default <- override and returns the merged RawTable
// (without normalization). A missing override file is not an error.
func (l *Loader) LoadMerged() (RawTable, error) {
	def, err := parseYAML(defaultYAML)
	if err != nil {
		return RawTable{}, fmt.Errorf("read default: %w", err)
	}
	if l.path == "" {
		return def, nil
	}
	override, err := readYAML(l.path)
	if err != nil {
		return RawTable{}, fmt.Errorf("read %s: %w", l.path, err)
	}
	return mergeRaw(def, override), nil
}

// Load returns the normalized table, cached until Invalidate.
func (l *Loader) Load() (Table, error) {
	l.mu.RLock()
	if l.cached != nil {
		t := *l.cached
		l.mu.RUnlock()
		return t, nil
	}
	l.mu.RUnlock()

	raw, err := l.LoadMerged()
	if err != nil {
		return Table{}, err
	}
	t, err := Normalize(raw)
	if err != nil {
		return Table{}, err
	}

	l.mu.Lock()
	l.cached = &t
	l.mu.Unlock()
	return t, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// readYAML loads a YAML file into RawTable. Missing files return zero cfg, no error.
func readYAML(path string) (RawTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawTable{}, nil
		}
		return RawTable{}, err
	}
	return parseYAML(b)
}

func parseYAML(b []byte) (RawTable, error) {
	var cfg RawTable
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawTable{}, err
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' wherever 'b' sets a value.
func mergeRaw(a, b RawTable) RawTable {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// odds
	if b.Odds.Easing != "" {
		out.Odds.Easing = b.Odds.Easing
	}
	if b.Odds.CommonFloor != nil {
		out.Odds.CommonFloor = b.Odds.CommonFloor
	}
	out.Odds.Base = mergeChances(a.Odds.Base, b.Odds.Base)
	out.Odds.Max = mergeChances(a.Odds.Max, b.Odds.Max)

	// amounts
	if len(b.Amounts) > 0 {
		merged := make(map[string]*RangeConfig, len(a.Amounts))
		for k, v := range a.Amounts {
			merged[k] = v
		}
		for k, v := range b.Amounts {
			if v == nil {
				continue
			}
			cur := RangeConfig{}
			if prev := merged[k]; prev != nil {
				cur = *prev
			}
			if v.Min != nil {
				cur.Min = v.Min
			}
			if v.Max != nil {
				cur.Max = v.Max
			}
			merged[k] = &cur
		}
		out.Amounts = merged
	}

	// tracks
	if len(b.Tracks) > 0 {
		merged := make(map[string]*TrackConfig, len(a.Tracks))
		for k, v := range a.Tracks {
			merged[k] = v
		}
		for k, v := range b.Tracks {
			if v == nil {
				continue
			}
			cur := TrackConfig{}
			if prev := merged[k]; prev != nil {
				cur = *prev
			}
			if v.Currency != "" {
				cur.Currency = v.Currency
			}
			if v.Base != nil {
				cur.Base = v.Base
			}
			if v.Growth != nil {
				cur.Growth = v.Growth
			}
			if v.MaxLevel != nil {
				cur.MaxLevel = v.MaxLevel
			}
			merged[k] = &cur
		}
		out.Tracks = merged
	}

	// round
	if b.Round.RevealDwell != nil {
		out.Round.RevealDwell = b.Round.RevealDwell
	}
	if b.Round.ResetDelay != nil {
		out.Round.ResetDelay = b.Round.ResetDelay
	}

	return out
}

func mergeChances(a, b *ChanceSet) *ChanceSet {
	switch {
	case b == nil:
		return a
	case a == nil:
		c := *b
		return &c
	}
	c := *a
	if b.Uncommon != nil {
		c.Uncommon = b.Uncommon
	}
	if b.Rare != nil {
		c.Rare = b.Rare
	}
	if b.UltraRare != nil {
		c.UltraRare = b.UltraRare
	}
	return &c
}
