package stats

import (
	"fmt"
	"sort"
	"sync"
)

// Kind names a derived numeric attribute.
type Kind string

const (
	Health       Kind = "health"
	Mana         Kind = "mana"
	Attack       Kind = "attack"
	Defense      Kind = "defense"
	MoveSpeed    Kind = "move_speed"
	CritChance   Kind = "crit_chance"
	CooldownRate Kind = "cooldown_rate"
)

var knownKinds = map[Kind]bool{
	Health:       true,
	Mana:         true,
	Attack:       true,
	Defense:      true,
	MoveSpeed:    true,
	CritChance:   true,
	CooldownRate: true,
}

func (k Kind) Valid() bool { return knownKinds[k] }

// Kinds returns every known stat kind in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(knownKinds))
	for k := range knownKinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type Mode string

const (
	Flat    Mode = "flat"
	Percent Mode = "percent"
)

// Modifier is a reversible adjustment to one stat.
type Modifier struct {
	Mode  Mode    `yaml:"mode" json:"mode"`
	Value float64 `yaml:"value" json:"value"`
}

func (m Modifier) Validate() error {
	switch m.Mode {
	case Flat, Percent:
		return nil
	default:
		return fmt.Errorf("unknown modifier mode: %q", m.Mode)
	}
}

// Applied is a modifier together with the source that applied it.
type Applied struct {
	Source   string   `json:"source"`
	Modifier Modifier `json:"modifier"`
}

// Sheet holds base stat values and the modifiers stacked on them.
// Derived value: (base + sum(flat)) * (1 + sum(percent)/100).
type Sheet struct {
	mu   sync.RWMutex
	base map[Kind]float64
	mods map[Kind]map[string]Modifier
}

func NewSheet(base map[Kind]float64) *Sheet {
	s := &Sheet{
		base: make(map[Kind]float64, len(base)),
		mods: make(map[Kind]map[string]Modifier),
	}
	for k, v := range base {
		s.base[k] = v
	}
	return s
}

func (s *Sheet) SetBase(kind Kind, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base[kind] = v
}

func (s *Sheet) Base(kind Kind) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base[kind]
}

// AddModifier stacks mod on kind. A second call with the same source
// replaces the earlier modifier rather than stacking twice.
func (s *Sheet) AddModifier(kind Kind, mod Modifier, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mods[kind]
	if !ok {
		m = make(map[string]Modifier)
		s.mods[kind] = m
	}
	m[source] = mod
}

// RemoveModifier drops the modifier source applied to kind.
// Returns false if nothing was registered under that source.
func (s *Sheet) RemoveModifier(kind Kind, source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mods[kind]
	if !ok {
		return false
	}
	if _, ok := m[source]; !ok {
		return false
	}
	delete(m, source)
	if len(m) == 0 {
		delete(s.mods, kind)
	}
	return true
}

func (s *Sheet) Value(kind Kind) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flat, pct := 0.0, 0.0
	for _, m := range s.mods[kind] {
		switch m.Mode {
		case Flat:
			flat += m.Value
		case Percent:
			pct += m.Value
		}
	}
	return (s.base[kind] + flat) * (1 + pct/100)
}

// Modifiers lists the modifiers on kind ordered by source.
func (s *Sheet) Modifiers(kind Kind) []Applied {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Applied, 0, len(s.mods[kind]))
	for src, m := range s.mods[kind] {
		out = append(out, Applied{Source: src, Modifier: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// ModifierCount is the number of active modifiers across all stats.
func (s *Sheet) ModifierCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.mods {
		n += len(m)
	}
	return n
}

// Values returns the derived value of every known stat.
func (s *Sheet) Values() map[Kind]float64 {
	out := make(map[Kind]float64, len(knownKinds))
	for _, k := range Kinds() {
		out[k] = s.Value(k)
	}
	return out
}
