package deck

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/JordanJFranklin/Galesong-sub001/internal/card"
	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
)

var (
	ErrNotOwned        = errors.New("card not owned")
	ErrAlreadyEquipped = errors.New("card already equipped")
	ErrNotEquipped     = errors.New("card not equipped")
	ErrBudgetExceeded  = errors.New("card exceeds remaining deck points")
	ErrInvalidAmount   = errors.New("invalid sell amount")
	ErrCardLocked      = errors.New("cannot sell the last copy of an equipped card")
)

// StatModifierSink receives the modifiers of equipped cards.
type StatModifierSink interface {
	AddModifier(kind stats.Kind, mod stats.Modifier, source string)
	RemoveModifier(kind stats.Kind, source string) bool
}

// CurrencySink is credited when cards are sold.
type CurrencySink interface {
	Grant(amount int)
}

// Capacity configures the point budget:
// total = Base + BonusUnits*BonusPerUnit.
type Capacity struct {
	Base         int `yaml:"base_capacity" json:"base_capacity"`
	BonusPerUnit int `yaml:"bonus_per_unit" json:"bonus_per_unit"`
	BonusUnits   int `yaml:"bonus_units_owned" json:"bonus_units_owned"`
}

func (c Capacity) Total() int { return c.Base + c.BonusUnits*c.BonusPerUnit }

type Options struct {
	Capacity Capacity
	Stats    StatModifierSink
	Currency CurrencySink
	Logger   *log.Logger
	Bus      *event.Bus
}

// Holding is one inventory entry.
type Holding struct {
	Card     card.Card `json:"card"`
	Stack    int       `json:"stack"`
	Equipped bool      `json:"equipped"`
}

type applied struct {
	stat   stats.Kind
	source string
}

// Budget owns the card inventory, the equipped set, and the point budget.
type Budget struct {
	mu sync.Mutex

	capacity  Capacity
	total     int
	used      int
	remaining int

	inventory map[string]*Holding
	equipped  map[string][]applied
	equipSeq  []string

	stats    StatModifierSink
	currency CurrencySink
	logger   *log.Logger
	bus      *event.Bus
}

func NewBudget(opts Options) (*Budget, error) {
	if opts.Stats == nil {
		return nil, errors.New("stat modifier sink is required")
	}
	if opts.Currency == nil {
		return nil, errors.New("currency sink is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	b := &Budget{
		capacity:  opts.Capacity,
		inventory: make(map[string]*Holding),
		equipped:  make(map[string][]applied),
		stats:     opts.Stats,
		currency:  opts.Currency,
		logger:    opts.Logger,
		bus:       opts.Bus,
	}
	b.RecalculateCapacity()
	return b, nil
}

// RecalculateCapacity recomputes total, used and remaining points.
// A negative remainder is logged and published, never clamped.
func (b *Budget) RecalculateCapacity() {
	b.mu.Lock()
	over := b.recalculate()
	b.mu.Unlock()
	b.publishOverdraft(over)
}

func (b *Budget) recalculate() (overdrawnBy int) {
	b.total = b.capacity.Total()
	b.used = 0
	for name := range b.equipped {
		b.used += b.inventory[name].Card.PointCost
	}
	b.remaining = b.total - b.used
	if b.remaining < 0 {
		b.logger.Printf("deck: budget overdrawn by %d points (used %d of %d)", -b.remaining, b.used, b.total)
		return -b.remaining
	}
	return 0
}

func (b *Budget) publishOverdraft(over int) {
	if over > 0 {
		b.bus.Publish(event.Event{Kind: event.BudgetOverdrawn, Amount: over})
	}
}

// SetBonusUnits changes how many capacity units are owned.
func (b *Budget) SetBonusUnits(n int) {
	if n < 0 {
		n = 0
	}
	b.mu.Lock()
	b.capacity.BonusUnits = n
	over := b.recalculate()
	b.mu.Unlock()
	b.publishOverdraft(over)
}

// AddBonusUnit buys one more capacity unit.
func (b *Budget) AddBonusUnit() {
	b.mu.Lock()
	b.capacity.BonusUnits++
	over := b.recalculate()
	b.mu.Unlock()
	b.publishOverdraft(over)
}

// GainCard adds one copy of c, stacking onto an existing entry of the same name.
func (b *Budget) GainCard(c card.Card) {
	b.mu.Lock()
	h, ok := b.inventory[c.Name]
	if ok {
		h.Stack++
	} else {
		h = &Holding{Card: c.Clone(), Stack: 1}
		b.inventory[c.Name] = h
	}
	stack := h.Stack
	b.mu.Unlock()

	b.bus.Publish(event.Event{Kind: event.CardGained, Subject: c.Name, Amount: stack})
}

// SellCard sells amount copies of name at unitPrice each.
// An equipped card can only be sold while at least one copy remains.
func (b *Budget) SellCard(name string, unitPrice, amount int) error {
	b.mu.Lock()
	h, ok := b.inventory[name]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOwned, name)
	}
	if amount <= 0 || amount > h.Stack {
		b.mu.Unlock()
		return fmt.Errorf("%w: %d of %d %s", ErrInvalidAmount, amount, h.Stack, name)
	}
	if _, eq := b.equipped[name]; eq && h.Stack <= amount {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrCardLocked, name)
	}

	h.Stack -= amount
	if h.Stack == 0 {
		delete(b.inventory, name)
	}
	b.mu.Unlock()

	earned := unitPrice * amount
	b.currency.Grant(earned)
	b.bus.Publish(event.Event{Kind: event.CardSold, Subject: name, Amount: earned})
	return nil
}

// Sell sells amount copies of name at the card's own sell price.
func (b *Budget) Sell(name string, amount int) error {
	b.mu.Lock()
	h, ok := b.inventory[name]
	price := 0
	if ok {
		price = h.Card.SellPrice()
	}
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOwned, name)
	}
	return b.SellCard(name, price, amount)
}

// Equip spends the card's point cost and applies its stat effects.
func (b *Budget) Equip(name string) error {
	b.mu.Lock()
	h, ok := b.inventory[name]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOwned, name)
	}
	if _, eq := b.equipped[name]; eq {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyEquipped, name)
	}
	if h.Card.PointCost > b.remaining {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s costs %d, %d remaining", ErrBudgetExceeded, name, h.Card.PointCost, b.remaining)
	}

	mods := make([]applied, 0, len(h.Card.Effects))
	for i, e := range h.Card.Effects {
		mods = append(mods, applied{stat: e.Stat, source: h.Card.SourceKey(i)})
	}
	b.equipped[name] = mods
	b.equipSeq = append(b.equipSeq, name)
	h.Equipped = true
	over := b.recalculate()

	for i, e := range h.Card.Effects {
		b.stats.AddModifier(e.Stat, e.Modifier, mods[i].source)
	}
	cost := h.Card.PointCost
	b.mu.Unlock()

	b.bus.Publish(event.Event{Kind: event.CardEquipped, Subject: name, Amount: cost})
	b.publishOverdraft(over)
	return nil
}

// Unequip frees the card's points and removes exactly the modifiers Equip applied.
func (b *Budget) Unequip(name string) error {
	b.mu.Lock()
	mods, ok := b.equipped[name]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotEquipped, name)
	}
	delete(b.equipped, name)
	for i, n := range b.equipSeq {
		if n == name {
			b.equipSeq = append(b.equipSeq[:i], b.equipSeq[i+1:]...)
			break
		}
	}
	cost := 0
	if h, ok := b.inventory[name]; ok {
		h.Equipped = false
		cost = h.Card.PointCost
	}
	over := b.recalculate()

	for _, m := range mods {
		b.stats.RemoveModifier(m.stat, m.source)
	}
	b.mu.Unlock()

	b.bus.Publish(event.Event{Kind: event.CardUnequipped, Subject: name, Amount: cost})
	b.publishOverdraft(over)
	return nil
}

func (b *Budget) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

func (b *Budget) Overdrawn() bool {
	return b.Remaining() < 0
}

func (b *Budget) Capacity() Capacity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Stack returns how many copies of name are owned.
func (b *Budget) Stack(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h, ok := b.inventory[name]; ok {
		return h.Stack
	}
	return 0
}

func (b *Budget) IsEquipped(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.equipped[name]
	return ok
}

// Inventory lists every holding ordered by card name.
func (b *Budget) Inventory() []Holding {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Holding, 0, len(b.inventory))
	for _, h := range b.inventory {
		out = append(out, Holding{Card: h.Card.Clone(), Stack: h.Stack, Equipped: h.Equipped})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Card.Name < out[j].Card.Name })
	return out
}

// Equipped lists equipped card names in the order they were equipped.
func (b *Budget) Equipped() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.equipSeq...)
}
