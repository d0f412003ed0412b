package deck

import (
	"bytes"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/JordanJFranklin/Galesong-sub001/internal/card"
	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkCall struct {
	add    bool
	stat   stats.Kind
	source string
}

type recordingSink struct {
	calls  []sinkCall
	active map[string]stats.Modifier
}

func newRecordingSink() *recordingSink {
	return &recordingSink{active: map[string]stats.Modifier{}}
}

func (s *recordingSink) AddModifier(kind stats.Kind, mod stats.Modifier, source string) {
	s.calls = append(s.calls, sinkCall{add: true, stat: kind, source: source})
	s.active[string(kind)+"|"+source] = mod
}

func (s *recordingSink) RemoveModifier(kind stats.Kind, source string) bool {
	s.calls = append(s.calls, sinkCall{stat: kind, source: source})
	k := string(kind) + "|" + source
	_, ok := s.active[k]
	delete(s.active, k)
	return ok
}

func (s *recordingSink) adds() int {
	n := 0
	for _, c := range s.calls {
		if c.add {
			n++
		}
	}
	return n
}

type coinCounter struct{ total int }

func (c *coinCounter) Grant(amount int) { c.total += amount }

func cardA() card.Card {
	return card.Card{
		Name:      "CardA",
		PointCost: 4,
		BuyPrice:  30,
		Effects: []card.StatEffect{
			{Stat: stats.Attack, Modifier: stats.Modifier{Mode: stats.Flat, Value: 3}},
			{Stat: stats.Attack, Modifier: stats.Modifier{Mode: stats.Percent, Value: 10}},
		},
	}
}

func cardB() card.Card {
	return card.Card{Name: "CardB", PointCost: 15, BuyPrice: 90, Tier: card.Holographic}
}

func newTestBudget(t *testing.T, total int) (*Budget, *recordingSink, *coinCounter) {
	t.Helper()
	sink := newRecordingSink()
	coins := &coinCounter{}
	b, err := NewBudget(Options{
		Capacity: Capacity{Base: total},
		Stats:    sink,
		Currency: coins,
		Logger:   log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	return b, sink, coins
}

func TestNewBudget_RequiresSinks(t *testing.T) {
	_, err := NewBudget(Options{Currency: &coinCounter{}})
	assert.Error(t, err)
	_, err = NewBudget(Options{Stats: newRecordingSink()})
	assert.Error(t, err)
}

func TestCapacityTotal(t *testing.T) {
	b, _, _ := newTestBudget(t, 0)
	assert.Equal(t, 16, Capacity{Base: 10, BonusPerUnit: 3, BonusUnits: 2}.Total())

	b.capacity = Capacity{Base: 10, BonusPerUnit: 3}
	b.AddBonusUnit()
	assert.Equal(t, 13, b.Total())
	assert.Equal(t, 13, b.Remaining())
}

func TestAddBonusUnit_Concurrent(t *testing.T) {
	b, _, _ := newTestBudget(t, 0)
	b.capacity = Capacity{Base: 10, BonusPerUnit: 2}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.AddBonusUnit()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, b.Capacity().BonusUnits)
	assert.Equal(t, 110, b.Total())
}

func TestEquip_AlreadyEquippedScenario(t *testing.T) {
	b, sink, _ := newTestBudget(t, 10)
	b.GainCard(cardA())

	require.NoError(t, b.Equip("CardA"))
	assert.Equal(t, 6, b.Remaining())
	assert.Equal(t, 4, b.Used())

	err := b.Equip("CardA")
	assert.ErrorIs(t, err, ErrAlreadyEquipped)
	assert.Equal(t, 6, b.Remaining())
	assert.Equal(t, 2, sink.adds(), "each modifier applied exactly once")
}

func TestEquip_BudgetExceededScenario(t *testing.T) {
	b, sink, _ := newTestBudget(t, 10)
	b.GainCard(cardB())

	err := b.Equip("CardB")

	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 10, b.Remaining())
	assert.False(t, b.IsEquipped("CardB"))
	assert.Empty(t, sink.calls)
}

func TestEquip_NotOwned(t *testing.T) {
	b, _, _ := newTestBudget(t, 10)
	assert.ErrorIs(t, b.Equip("Ghost"), ErrNotOwned)
}

func TestEquip_ExactFit(t *testing.T) {
	b, _, _ := newTestBudget(t, 4)
	b.GainCard(cardA())
	require.NoError(t, b.Equip("CardA"))
	assert.Equal(t, 0, b.Remaining())
}

func TestEquipUnequip_RoundTripNeutral(t *testing.T) {
	b, sink, _ := newTestBudget(t, 10)
	b.GainCard(cardA())
	before := b.Remaining()

	require.NoError(t, b.Equip("CardA"))
	require.NoError(t, b.Unequip("CardA"))

	assert.Equal(t, before, b.Remaining())
	assert.Empty(t, sink.active)
	assert.Len(t, sink.calls, 4)
	assert.Equal(t, "card:CardA#0", sink.calls[0].source)
	assert.Equal(t, "card:CardA#1", sink.calls[1].source)
	assert.Empty(t, b.Equipped())
}

func TestUnequip_NotEquipped(t *testing.T) {
	b, _, _ := newTestBudget(t, 10)
	b.GainCard(cardA())
	assert.ErrorIs(t, b.Unequip("CardA"), ErrNotEquipped)
}

func TestUnequip_WorksWithRealSheet(t *testing.T) {
	sheet := stats.NewSheet(map[stats.Kind]float64{stats.Attack: 10})
	b, err := NewBudget(Options{
		Capacity: Capacity{Base: 10},
		Stats:    sheet,
		Currency: &coinCounter{},
		Logger:   log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	b.GainCard(cardA())

	require.NoError(t, b.Equip("CardA"))
	assert.InDelta(t, 14.3, sheet.Value(stats.Attack), 1e-9)

	require.NoError(t, b.Unequip("CardA"))
	assert.InDelta(t, 10, sheet.Value(stats.Attack), 1e-9)
}

func TestGainCard_Stacks(t *testing.T) {
	b, _, _ := newTestBudget(t, 10)
	b.GainCard(cardA())
	b.GainCard(cardA())
	b.GainCard(cardB())

	assert.Equal(t, 2, b.Stack("CardA"))
	assert.Equal(t, 1, b.Stack("CardB"))

	inv := b.Inventory()
	require.Len(t, inv, 2)
	assert.Equal(t, "CardA", inv[0].Card.Name)
}

func TestSellCard(t *testing.T) {
	t.Run("partial sale keeps entry", func(t *testing.T) {
		b, _, coins := newTestBudget(t, 10)
		for i := 0; i < 3; i++ {
			b.GainCard(cardA())
		}
		require.NoError(t, b.SellCard("CardA", 15, 2))
		assert.Equal(t, 1, b.Stack("CardA"))
		assert.Equal(t, 30, coins.total)
	})

	t.Run("selling whole stack removes entry", func(t *testing.T) {
		b, _, coins := newTestBudget(t, 10)
		b.GainCard(cardA())
		b.GainCard(cardA())
		require.NoError(t, b.Sell("CardA", 2))
		assert.Equal(t, 0, b.Stack("CardA"))
		assert.Empty(t, b.Inventory())
		assert.Equal(t, 30, coins.total)
	})

	t.Run("invalid amounts", func(t *testing.T) {
		b, _, coins := newTestBudget(t, 10)
		b.GainCard(cardA())
		assert.ErrorIs(t, b.SellCard("CardA", 15, 0), ErrInvalidAmount)
		assert.ErrorIs(t, b.SellCard("CardA", 15, -1), ErrInvalidAmount)
		assert.ErrorIs(t, b.SellCard("CardA", 15, 2), ErrInvalidAmount)
		assert.Equal(t, 1, b.Stack("CardA"))
		assert.Equal(t, 0, coins.total)
	})

	t.Run("not owned", func(t *testing.T) {
		b, _, _ := newTestBudget(t, 10)
		assert.ErrorIs(t, b.SellCard("CardA", 15, 1), ErrNotOwned)
		assert.ErrorIs(t, b.Sell("CardA", 1), ErrNotOwned)
	})

	t.Run("equipped last copy is locked", func(t *testing.T) {
		b, _, coins := newTestBudget(t, 10)
		b.GainCard(cardA())
		b.GainCard(cardA())
		require.NoError(t, b.Equip("CardA"))

		assert.ErrorIs(t, b.SellCard("CardA", 15, 2), ErrCardLocked)
		assert.Equal(t, 2, b.Stack("CardA"))

		require.NoError(t, b.SellCard("CardA", 15, 1))
		assert.Equal(t, 1, b.Stack("CardA"))
		assert.True(t, b.IsEquipped("CardA"))

		assert.ErrorIs(t, b.SellCard("CardA", 15, 1), ErrCardLocked)
		assert.Equal(t, 15, coins.total)
	})
}

func TestRecalculate_OverdraftWarns(t *testing.T) {
	var buf bytes.Buffer
	bus := event.NewBus()
	var overdrawn []int
	bus.Subscribe(func(e event.Event) {
		if e.Kind == event.BudgetOverdrawn {
			overdrawn = append(overdrawn, e.Amount)
		}
	})

	b, err := NewBudget(Options{
		Capacity: Capacity{Base: 6, BonusPerUnit: 4, BonusUnits: 1},
		Stats:    newRecordingSink(),
		Currency: &coinCounter{},
		Logger:   log.New(&buf, "", 0),
		Bus:      bus,
	})
	require.NoError(t, err)
	b.GainCard(card.Card{Name: "Big", PointCost: 9})
	require.NoError(t, b.Equip("Big"))
	assert.Equal(t, 1, b.Remaining())

	b.SetBonusUnits(0)

	assert.Equal(t, -3, b.Remaining())
	assert.True(t, b.Overdrawn())
	assert.Contains(t, buf.String(), "budget overdrawn by 3")
	assert.Equal(t, []int{3}, overdrawn)

	assert.ErrorIs(t, b.Equip("Big"), ErrAlreadyEquipped)
	require.NoError(t, b.Unequip("Big"))
	assert.Equal(t, 6, b.Remaining())
	assert.False(t, b.Overdrawn())
}

func TestBudget_PublishesCardEvents(t *testing.T) {
	bus := event.NewBus()
	var kinds []event.Kind
	bus.Subscribe(func(e event.Event) { kinds = append(kinds, e.Kind) })

	b, err := NewBudget(Options{
		Capacity: Capacity{Base: 10},
		Stats:    newRecordingSink(),
		Currency: &coinCounter{},
		Logger:   log.New(io.Discard, "", 0),
		Bus:      bus,
	})
	require.NoError(t, err)

	b.GainCard(cardA())
	b.GainCard(cardA())
	require.NoError(t, b.Equip("CardA"))
	require.NoError(t, b.Unequip("CardA"))
	require.NoError(t, b.Sell("CardA", 1))

	assert.Equal(t, []event.Kind{
		event.CardGained, event.CardGained, event.CardEquipped, event.CardUnequipped, event.CardSold,
	}, kinds)
}
