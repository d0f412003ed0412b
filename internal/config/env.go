package config

import (
	"os"
	"strconv"
)

// FromEnv applies balance overrides from environment variables on top of base.
// A difficulty preset replaces base before the individual overrides.
func FromEnv(base Balance) Balance {
	cfg := base

	// Support preset modes
	switch os.Getenv("GALESONG_DIFFICULTY") {
	case "casual":
		cfg = Casual()
	case "hard":
		cfg = Hard()
	case "default":
		cfg = Default()
	}

	if val, ok := getEnvInt("GALESONG_BASE_CAPACITY"); ok && val >= 0 {
		cfg.BaseCapacity = val
	}
	if val, ok := getEnvInt("GALESONG_BONUS_PER_UNIT"); ok && val >= 0 {
		cfg.BonusPerUnit = val
	}
	if val, ok := getEnvInt("GALESONG_BONUS_UNIT_PRICE"); ok && val >= 0 {
		cfg.BonusUnitPrice = val
	}
	if val, ok := getEnvInt("GALESONG_STARTING_COINS"); ok && val >= 0 {
		cfg.StartingCoins = val
	}

	return cfg
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
