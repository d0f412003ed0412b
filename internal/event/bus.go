package event

import (
	"log"
	"sync"
	"time"
)

type Kind string

const (
	CooldownStarted  Kind = "cooldown.started"
	CooldownReady    Kind = "cooldown.ready"
	CooldownReset    Kind = "cooldown.reset"
	CooldownReduced  Kind = "cooldown.reduced"
	AbilityUsed      Kind = "ability.used"
	AbilityBlocked   Kind = "ability.blocked"
	CardGained       Kind = "card.gained"
	CardSold         Kind = "card.sold"
	CardBought       Kind = "card.bought"
	CardEquipped     Kind = "card.equipped"
	CardUnequipped   Kind = "card.unequipped"
	BudgetOverdrawn  Kind = "budget.overdrawn"
	CapacityUpgraded Kind = "budget.capacity_upgraded"
	CatalogReloaded  Kind = "catalog.reloaded"
)

// Event is a tagged notification. Subject is the cooldown or card name;
// Amount carries the kind-specific number (coins, points, count).
type Event struct {
	Kind    Kind      `json:"kind"`
	Subject string    `json:"subject,omitempty"`
	Amount  int       `json:"amount,omitempty"`
	At      time.Time `json:"at"`
}

type Listener func(Event)

// Bus dispatches events synchronously to listeners in subscription order.
// A nil *Bus is a valid publisher that drops everything.
type Bus struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	order     []int
	nextID    int
	now       func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
}

// Subscribe registers l and returns a func that removes it.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = b.now()
	}

	b.mu.RLock()
	ls := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		ls = append(ls, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}

// DiagnosticListener writes every event to logger.
func DiagnosticListener(logger *log.Logger) Listener {
	if logger == nil {
		logger = log.Default()
	}
	return func(e Event) {
		logger.Printf("event %s subject=%q amount=%d", e.Kind, e.Subject, e.Amount)
	}
}
