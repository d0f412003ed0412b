package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/cooldown"
	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
	"github.com/JordanJFranklin/Galesong-sub001/internal/game"
	"github.com/JordanJFranklin/Galesong-sub001/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Dash", "Gale Burst"}, splitList(" Dash, Gale Burst ,,"))
	assert.Empty(t, splitList(""))
}

type brokenRepo struct{ telemetry.Repository }

func (brokenRepo) GetEvents(time.Time, []event.Kind) ([]telemetry.Record, error) {
	return nil, errors.New("store offline")
}

func TestPrintSummary(t *testing.T) {
	snap := game.Snapshot{
		At:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Cooldowns: []cooldown.Entry{{Name: "Dash", Ready: true, Maximum: time.Second}},
		Total:     10,
		Used:      4,
		Coins:     70,
	}

	t.Run("writes deck and cooldown lines", func(t *testing.T) {
		repo := telemetry.NewMemoryRepository()
		require.NoError(t, repo.RecordEvent(event.BudgetOverdrawn, snap.At, telemetry.Metadata{"amount": 2}))

		var buf bytes.Buffer
		require.NoError(t, printSummary(&buf, snap, repo))
		assert.Contains(t, buf.String(), "deck 4/10 points, 70 coins, 1 events")
		assert.Contains(t, buf.String(), "Dash")
		assert.Contains(t, buf.String(), "budget overdrawn 1 times")
	})

	t.Run("repository errors are returned", func(t *testing.T) {
		var buf bytes.Buffer
		err := printSummary(&buf, snap, brokenRepo{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store offline")
		assert.Empty(t, buf.String())
	})
}
