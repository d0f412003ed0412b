package card

import (
	"fmt"

	"github.com/JordanJFranklin/Galesong-sub001/internal/stats"
	"gopkg.in/yaml.v3"
)

// Tier is an ordered rarity: Tactic < Monster < Holographic.
type Tier int

const (
	Tactic Tier = iota
	Monster
	Holographic
)

var tierNames = map[Tier]string{
	Tactic:      "tactic",
	Monster:     "monster",
	Holographic: "holographic",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier: %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if _, ok := tierNames[t]; !ok {
		return nil, fmt.Errorf("unknown tier: %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *Tier) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// StatEffect is one modifier a card applies while equipped.
type StatEffect struct {
	Stat     stats.Kind     `yaml:"stat" json:"stat"`
	Modifier stats.Modifier `yaml:",inline" json:"modifier"`
}

// Card is a value record identified by Name.
type Card struct {
	Name      string       `yaml:"name" json:"name"`
	PointCost int          `yaml:"point_cost" json:"point_cost"`
	BuyPrice  int          `yaml:"buy_price" json:"buy_price"`
	Tier      Tier         `yaml:"tier" json:"tier"`
	Effects   []StatEffect `yaml:"effects" json:"effects"`
}

// SellPrice is always half the buy price, truncated.
func (c Card) SellPrice() int { return c.BuyPrice / 2 }

// SourceKey identifies the i-th effect of c on a stat sink so it can be
// removed precisely later.
func (c Card) SourceKey(i int) string {
	return fmt.Sprintf("card:%s#%d", c.Name, i)
}

// Clone returns a copy that shares no slices with c.
func (c Card) Clone() Card {
	out := c
	out.Effects = append([]StatEffect(nil), c.Effects...)
	return out
}
