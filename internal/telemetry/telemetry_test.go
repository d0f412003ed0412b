package telemetry

import (
	"testing"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_FiltersByTimeAndType(t *testing.T) {
	repo := NewMemoryRepository()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordEvent(event.CardSold, t0, Metadata{"amount": 10}))
	require.NoError(t, repo.RecordEvent(event.AbilityUsed, t0.Add(time.Minute), Metadata{"subject": "Dash"}))
	require.NoError(t, repo.RecordEvent(event.CardSold, t0.Add(2*time.Minute), Metadata{"amount": 5}))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)

	sold, err := repo.GetEvents(t0.Add(30*time.Second), []event.Kind{event.CardSold})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, 3, sold[0].ID)

	require.NoError(t, repo.Clear())
	all, _ = repo.GetEvents(time.Time{}, nil)
	assert.Empty(t, all)
}

func TestRecorderAndStats(t *testing.T) {
	repo := NewMemoryRepository()
	bus := event.NewBus()
	bus.Subscribe(Recorder(repo, nil))

	bus.Publish(event.Event{Kind: event.AbilityUsed, Subject: "Dash"})
	bus.Publish(event.Event{Kind: event.AbilityUsed, Subject: "Dash"})
	bus.Publish(event.Event{Kind: event.AbilityBlocked, Subject: "Dash"})
	bus.Publish(event.Event{Kind: event.AbilityUsed, Subject: "Gale Burst"})
	bus.Publish(event.Event{Kind: event.CardEquipped, Subject: "Ember", Amount: 3})
	bus.Publish(event.Event{Kind: event.CardSold, Subject: "Ember", Amount: 15})
	bus.Publish(event.Event{Kind: event.CardBought, Subject: "Ember", Amount: 30})
	bus.Publish(event.Event{Kind: event.BudgetOverdrawn, Amount: 2})

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)

	s, err := CalculateStats(events, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 2, s.AbilityUses["Dash"])
	assert.Equal(t, 1, s.AbilityUses["Gale Burst"])
	assert.Equal(t, 1, s.AbilitiesBlocked)
	assert.InDelta(t, 0.25, s.BlockRate, 1e-9)
	assert.Equal(t, 1, s.CardsEquipped["Ember"])
	assert.Equal(t, 1, s.CardsSold)
	assert.Equal(t, 15, s.CoinsEarned)
	assert.Equal(t, 30, s.CoinsSpent)
	assert.Equal(t, 1, s.Overdrafts)
	assert.Equal(t, 3, s.EventCounts[event.AbilityUsed])
}
