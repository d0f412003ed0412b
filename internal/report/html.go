package report

import (
	"fmt"

	"github.com/JordanJFranklin/Galesong-sub001/internal/cooldown"
	"github.com/JordanJFranklin/Galesong-sub001/internal/deck"
	"github.com/JordanJFranklin/Galesong-sub001/internal/game"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
)

//go:generate templ generate

func budgetClass(s game.Snapshot) string {
	if s.Remaining < 0 {
		return "overdrawn"
	}
	return "ok"
}

func cooldownState(c cooldown.Entry) string {
	if c.Ready {
		return "ready"
	}
	return "cooling"
}

func equippedMark(h deck.Holding) string {
	if h.Equipped {
		return "equipped"
	}
	return ""
}

func statValue(s game.Snapshot, k stats.Kind) string {
	return fmt.Sprintf("%.2f", s.Stats[k])
}
