package cooldown

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
)

// Cap bounds Remaining on every tick.
const Cap = 999 * time.Second

var (
	ErrNotFound      = errors.New("cooldown not found")
	ErrDuplicateName = errors.New("cooldown already registered")
)

// Entry is a snapshot of one named timer.
// Ready and Remaining are normally in sync: Remaining == 0 implies Ready.
// Reduce is the exception; it forces Ready=false and the next Tick settles it.
type Entry struct {
	Name      string        `json:"name"`
	Remaining time.Duration `json:"remaining"`
	Maximum   time.Duration `json:"maximum"`
	Ready     bool          `json:"ready"`
}

// Registry tracks named ability cooldowns advanced by a host loop.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry

	logger *log.Logger
	bus    *event.Bus
}

func NewRegistry(logger *log.Logger, bus *event.Bus) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		entries: make(map[string]*Entry),
		logger:  logger,
		bus:     bus,
	}
}

// Register adds name in the Ready state with Remaining = Maximum = duration.
func (r *Registry) Register(name string, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	r.entries[name] = &Entry{
		Name:      name,
		Remaining: duration,
		Maximum:   duration,
		Ready:     true,
	}
	return nil
}

func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.entries, name)
	return nil
}

func (r *Registry) IsReady(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.Ready, nil
}

// IsReadyOr reports readiness, returning fallback for an unknown name.
// Ability call sites pass true so an unregistered ability is never blocked.
func (r *Registry) IsReadyOr(name string, fallback bool) bool {
	ready, err := r.IsReady(name)
	if err != nil {
		return fallback
	}
	return ready
}

// Start restarts the timer from its maximum.
func (r *Registry) Start(name string) error {
	err := r.mutate(name, func(e *Entry) {
		e.Remaining = e.Maximum
		e.Ready = false
	})
	if err != nil {
		return err
	}
	r.bus.Publish(event.Event{Kind: event.CooldownStarted, Subject: name})
	return nil
}

// SetDuration replaces the maximum and starts the timer with it.
func (r *Registry) SetDuration(name string, d time.Duration) error {
	err := r.mutate(name, func(e *Entry) {
		e.Maximum = d
		e.Remaining = d
		e.Ready = false
	})
	if err != nil {
		return err
	}
	r.bus.Publish(event.Event{Kind: event.CooldownStarted, Subject: name})
	return nil
}

// Reduce subtracts amount and marks the entry not ready even when the
// result is <= 0. Only Tick flips it back.
func (r *Registry) Reduce(name string, amount time.Duration) error {
	err := r.mutate(name, func(e *Entry) {
		e.Remaining -= amount
		e.Ready = false
	})
	if err != nil {
		return err
	}
	r.bus.Publish(event.Event{Kind: event.CooldownReduced, Subject: name, Amount: int(amount / time.Millisecond)})
	return nil
}

func (r *Registry) Reset(name string) error {
	err := r.mutate(name, func(e *Entry) {
		e.Remaining = 0
		e.Ready = true
	})
	if err != nil {
		return err
	}
	r.bus.Publish(event.Event{Kind: event.CooldownReset, Subject: name})
	return nil
}

// ResetAll readies every entry and returns how many were reset.
func (r *Registry) ResetAll() int {
	r.mu.Lock()
	n := len(r.entries)
	for _, e := range r.entries {
		e.Remaining = 0
		e.Ready = true
	}
	r.mu.Unlock()

	if n == 0 {
		r.logger.Printf("cooldown: reset all on empty registry")
		return 0
	}
	r.bus.Publish(event.Event{Kind: event.CooldownReset, Amount: n})
	return n
}

// Tick advances every entry by dt. Remaining is clamped into [0, Cap]
// first; a cooling entry that reaches zero becomes ready.
func (r *Registry) Tick(dt time.Duration) {
	var finished []string

	r.mu.Lock()
	for _, e := range r.entries {
		if e.Remaining < 0 {
			e.Remaining = 0
		}
		if e.Remaining > Cap {
			e.Remaining = Cap
		}
		if e.Ready {
			continue
		}
		e.Remaining -= dt
		if e.Remaining <= 0 {
			e.Remaining = 0
			e.Ready = true
			finished = append(finished, e.Name)
		}
	}
	r.mu.Unlock()

	sort.Strings(finished)
	for _, name := range finished {
		r.bus.Publish(event.Event{Kind: event.CooldownReady, Subject: name})
	}
}

func (r *Registry) Get(name string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return *e, nil
}

// List returns a copy of every entry ordered by name.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) mutate(name string, fn func(e *Entry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	fn(e)
	return nil
}
