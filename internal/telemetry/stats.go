package telemetry

import (
	"encoding/json"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
)

type Stats struct {
	Period           string             `json:"period"`
	EventCounts      map[event.Kind]int `json:"event_counts"`
	AbilityUses      map[string]int     `json:"ability_uses"`
	AbilitiesBlocked int                `json:"abilities_blocked"`
	CardsEquipped    map[string]int     `json:"cards_equipped"`
	CardsSold        int                `json:"cards_sold"`
	CoinsEarned      int                `json:"coins_earned"`
	CoinsSpent       int                `json:"coins_spent"`
	Overdrafts       int                `json:"overdrafts"`
	BlockRate        float64            `json:"block_rate"`
}

// CalculateStats computes balance stats from recorded events
func CalculateStats(events []Record, since time.Time) (Stats, error) {
	stats := Stats{
		Period:        since.Format("2006-01-02"),
		EventCounts:   make(map[event.Kind]int),
		AbilityUses:   make(map[string]int),
		CardsEquipped: make(map[string]int),
	}

	for _, e := range events {
		stats.EventCounts[e.Type]++

		var md Metadata
		if err := json.Unmarshal([]byte(e.Metadata), &md); err != nil {
			continue
		}
		subject, _ := md["subject"].(string)
		amount := 0
		if f, ok := md["amount"].(float64); ok {
			amount = int(f)
		}

		switch e.Type {
		case event.AbilityUsed:
			stats.AbilityUses[subject]++
		case event.AbilityBlocked:
			stats.AbilitiesBlocked++
		case event.CardEquipped:
			stats.CardsEquipped[subject]++
		case event.CardSold:
			stats.CardsSold++
			stats.CoinsEarned += amount
		case event.CardBought, event.CapacityUpgraded:
			stats.CoinsSpent += amount
		case event.BudgetOverdrawn:
			stats.Overdrafts++
		}
	}

	attempts := stats.AbilitiesBlocked
	for _, n := range stats.AbilityUses {
		attempts += n
	}
	if attempts > 0 {
		stats.BlockRate = float64(stats.AbilitiesBlocked) / float64(attempts)
	}

	return stats, nil
}
