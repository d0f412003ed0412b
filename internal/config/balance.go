package config

import (
	"fmt"

	"github.com/JordanJFranklin/Galesong-sub001/internal/deck"
)

// Balance holds deck economy configuration
type Balance struct {
	// Deck point budget
	BaseCapacity    int `yaml:"base_capacity" json:"base_capacity"`
	BonusPerUnit    int `yaml:"bonus_per_unit" json:"bonus_per_unit"`
	BonusUnitsOwned int `yaml:"bonus_units_owned" json:"bonus_units_owned"`

	// Shop
	BonusUnitPrice int `yaml:"bonus_unit_price" json:"bonus_unit_price"`
	StartingCoins  int `yaml:"starting_coins" json:"starting_coins"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		BaseCapacity:    10,
		BonusPerUnit:    2,
		BonusUnitsOwned: 0,
		BonusUnitPrice:  50,
		StartingCoins:   100,
	}
}

// Casual returns a roomier deck for casual difficulty
func Casual() Balance {
	cfg := Default()
	cfg.BaseCapacity = 14
	cfg.BonusPerUnit = 3
	cfg.BonusUnitPrice = 30
	cfg.StartingCoins = 200
	return cfg
}

// Hard returns a tighter deck for experienced players
func Hard() Balance {
	cfg := Default()
	cfg.BaseCapacity = 8
	cfg.BonusUnitPrice = 80
	cfg.StartingCoins = 50
	return cfg
}

// ApplyDefaults fills unset fields from Default(). BonusUnitsOwned stays
// as configured since owning no bonus units is the normal start.
func (b *Balance) ApplyDefaults() {
	d := Default()
	if b.BaseCapacity == 0 {
		b.BaseCapacity = d.BaseCapacity
	}
	if b.BonusPerUnit == 0 {
		b.BonusPerUnit = d.BonusPerUnit
	}
	if b.BonusUnitPrice == 0 {
		b.BonusUnitPrice = d.BonusUnitPrice
	}
	if b.StartingCoins == 0 {
		b.StartingCoins = d.StartingCoins
	}
}

func (b Balance) Validate() error {
	if b.BaseCapacity < 0 {
		return fmt.Errorf("balance: base_capacity must be >= 0")
	}
	if b.BonusPerUnit < 0 {
		return fmt.Errorf("balance: bonus_per_unit must be >= 0")
	}
	if b.BonusUnitsOwned < 0 {
		return fmt.Errorf("balance: bonus_units_owned must be >= 0")
	}
	if b.BonusUnitPrice < 0 {
		return fmt.Errorf("balance: bonus_unit_price must be >= 0")
	}
	if b.StartingCoins < 0 {
		return fmt.Errorf("balance: starting_coins must be >= 0")
	}
	return nil
}

func (b Balance) Capacity() deck.Capacity {
	return deck.Capacity{
		Base:         b.BaseCapacity,
		BonusPerUnit: b.BonusPerUnit,
		BonusUnits:   b.BonusUnitsOwned,
	}
}
