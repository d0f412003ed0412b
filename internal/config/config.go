package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/card"
	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Version   string                 `yaml:"version" json:"version"`
	Balance   Balance                `yaml:"balance" json:"balance"`
	Stats     map[stats.Kind]float64 `yaml:"stats" json:"stats"`
	Cooldowns []Cooldown             `yaml:"cooldowns" json:"cooldowns"`
	Cards     []card.Card            `yaml:"cards" json:"cards"`
	Start     Start                  `yaml:"start" json:"start"`
}

type Cooldown struct {
	Name     string        `yaml:"name" json:"name"`
	Duration time.Duration `yaml:"duration" json:"duration"`
}

type Start struct {
	Cards   []string `yaml:"cards" json:"cards"`
	Loadout []string `yaml:"loadout" json:"loadout"`
}

var defaultStats = map[stats.Kind]float64{
	stats.Health:       100,
	stats.Mana:         50,
	stats.Attack:       10,
	stats.Defense:      5,
	stats.MoveSpeed:    6,
	stats.CritChance:   5,
	stats.CooldownRate: 100,
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	c.Balance.ApplyDefaults()
	if c.Stats == nil {
		c.Stats = make(map[stats.Kind]float64, len(defaultStats))
	}
	for k, v := range defaultStats {
		if _, ok := c.Stats[k]; !ok {
			c.Stats[k] = v
		}
	}
}

func (c *Config) Validate() error {
	if err := c.Balance.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Cooldowns))
	for _, cd := range c.Cooldowns {
		if cd.Name == "" {
			return fmt.Errorf("cooldown name is required")
		}
		if cd.Duration < 0 {
			return fmt.Errorf("cooldown %s: duration must be >= 0", cd.Name)
		}
		if seen[cd.Name] {
			return fmt.Errorf("duplicate cooldown: %s", cd.Name)
		}
		seen[cd.Name] = true
	}

	for k := range c.Stats {
		if !k.Valid() {
			return fmt.Errorf("unknown stat: %q", k)
		}
	}

	cards := make(map[string]bool, len(c.Cards))
	for _, cd := range c.Cards {
		if err := cd.Validate(); err != nil {
			return err
		}
		cards[cd.Name] = true
	}
	for _, name := range c.Start.Cards {
		if !cards[name] {
			return fmt.Errorf("start card not in catalog: %s", name)
		}
	}
	owned := make(map[string]bool, len(c.Start.Cards))
	for _, name := range c.Start.Cards {
		owned[name] = true
	}
	for _, name := range c.Start.Loadout {
		if !owned[name] {
			return fmt.Errorf("loadout card not owned at start: %s", name)
		}
	}

	return nil
}

// Parse decodes YAML config bytes, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
