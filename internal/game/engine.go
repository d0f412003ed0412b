package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/card"
	"github.com/JordanJFranklin/Galesong-sub001/internal/config"
	"github.com/JordanJFranklin/Galesong-sub001/internal/cooldown"
	"github.com/JordanJFranklin/Galesong-sub001/internal/deck"
	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
	"github.com/JordanJFranklin/Galesong-sub001/internal/wallet"
)

var ErrInsufficientCoins = errors.New("not enough coins")

type Options struct {
	Config *config.Config
	Clock  Clock
	Logger *log.Logger
	Bus    *event.Bus
}

// Engine wires the cooldown registry, deck budget and their collaborators.
// Build one per play session and pass it to whatever needs it.
type Engine struct {
	Cooldowns *cooldown.Registry
	Deck      *deck.Budget
	Stats     *stats.Sheet
	Purse     *wallet.Purse
	Bus       *event.Bus
	Clock     Clock

	mu      sync.RWMutex
	catalog *card.Catalog
	frames  *frameTimer

	balance config.Balance
	logger  *log.Logger
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	cfg := opts.Config

	catalog, err := card.NewCatalog(cfg.Cards)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	cooldowns := cooldown.NewRegistry(opts.Logger, opts.Bus)
	for _, cd := range cfg.Cooldowns {
		if err := cooldowns.Register(cd.Name, cd.Duration); err != nil {
			return nil, err
		}
	}

	sheet := stats.NewSheet(cfg.Stats)
	purse := wallet.NewPurse(cfg.Balance.StartingCoins)

	budget, err := deck.NewBudget(deck.Options{
		Capacity: cfg.Balance.Capacity(),
		Stats:    sheet,
		Currency: purse,
		Logger:   opts.Logger,
		Bus:      opts.Bus,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Cooldowns: cooldowns,
		Deck:      budget,
		Stats:     sheet,
		Purse:     purse,
		Bus:       opts.Bus,
		Clock:     opts.Clock,
		catalog:   catalog,
		frames:    newFrameTimer(opts.Clock),
		balance:   cfg.Balance,
		logger:    opts.Logger,
	}

	for _, name := range cfg.Start.Cards {
		c, err := catalog.Get(name)
		if err != nil {
			return nil, err
		}
		budget.GainCard(c)
	}
	for _, name := range cfg.Start.Loadout {
		if err := budget.Equip(name); err != nil {
			return nil, fmt.Errorf("equip starting loadout: %w", err)
		}
	}

	return e, nil
}

// Frame advances all cooldowns by dt. Negative deltas are treated as zero.
func (e *Engine) Frame(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.Cooldowns.Tick(dt)
}

// Step runs one frame using the time elapsed on the engine clock since
// the previous Step.
func (e *Engine) Step() time.Duration {
	e.mu.Lock()
	dt := e.frames.next()
	e.mu.Unlock()

	e.Frame(dt)
	return dt
}

// Run steps the engine every interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("frame interval must be > 0")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Step()
		}
	}
}

// UseAbility fires name if its cooldown allows it and starts the cooldown.
// Abilities without a registered cooldown are never blocked.
func (e *Engine) UseAbility(name string) bool {
	if !e.Cooldowns.IsReadyOr(name, true) {
		e.Bus.Publish(event.Event{Kind: event.AbilityBlocked, Subject: name})
		return false
	}
	if err := e.Cooldowns.Start(name); err != nil && !errors.Is(err, cooldown.ErrNotFound) {
		e.logger.Printf("ability %s: %v", name, err)
	}
	e.Bus.Publish(event.Event{Kind: event.AbilityUsed, Subject: name})
	return true
}

// BuyCard pays the catalog buy price and adds the card to the inventory.
func (e *Engine) BuyCard(name string) error {
	c, err := e.Catalog().Get(name)
	if err != nil {
		return err
	}
	if !e.Purse.Spend(c.BuyPrice) {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientCoins, name, c.BuyPrice, e.Purse.Balance())
	}
	e.Deck.GainCard(c)
	e.Bus.Publish(event.Event{Kind: event.CardBought, Subject: name, Amount: c.BuyPrice})
	return nil
}

// SellCard sells copies at the card's sell price.
func (e *Engine) SellCard(name string, amount int) error {
	return e.Deck.Sell(name, amount)
}

// BuyCapacityUnit purchases one bonus unit of deck capacity.
func (e *Engine) BuyCapacityUnit() error {
	price := e.balance.BonusUnitPrice
	if !e.Purse.Spend(price) {
		return fmt.Errorf("%w: capacity unit costs %d, have %d", ErrInsufficientCoins, price, e.Purse.Balance())
	}
	e.Deck.AddBonusUnit()
	e.Bus.Publish(event.Event{Kind: event.CapacityUpgraded, Amount: price})
	return nil
}

func (e *Engine) Catalog() *card.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// ReloadCatalog swaps in the card definitions from path. Owned cards keep
// the definition they were gained with. On error the old catalog stays.
func (e *Engine) ReloadCatalog(path string) error {
	c, err := card.LoadCatalog(path)
	if err != nil {
		e.logger.Printf("catalog reload %s: %v", path, err)
		return err
	}
	e.mu.Lock()
	e.catalog = c
	e.mu.Unlock()

	e.Bus.Publish(event.Event{Kind: event.CatalogReloaded, Subject: path, Amount: c.Len()})
	return nil
}

// Snapshot is a read-only view of the session for reports.
type Snapshot struct {
	At        time.Time              `json:"at"`
	Cooldowns []cooldown.Entry       `json:"cooldowns"`
	Inventory []deck.Holding         `json:"inventory"`
	Equipped  []string               `json:"equipped"`
	Capacity  deck.Capacity          `json:"capacity"`
	Total     int                    `json:"total"`
	Used      int                    `json:"used"`
	Remaining int                    `json:"remaining"`
	Coins     int                    `json:"coins"`
	Stats     map[stats.Kind]float64 `json:"stats"`
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		At:        e.Clock.Now(),
		Cooldowns: e.Cooldowns.List(),
		Inventory: e.Deck.Inventory(),
		Equipped:  e.Deck.Equipped(),
		Capacity:  e.Deck.Capacity(),
		Total:     e.Deck.Total(),
		Used:      e.Deck.Used(),
		Remaining: e.Deck.Remaining(),
		Coins:     e.Purse.Balance(),
		Stats:     e.Stats.Values(),
	}
}
