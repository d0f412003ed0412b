package card

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrUnknownCard = errors.New("unknown card")

// Catalog is the read-only set of card definitions available to buy or gain.
type Catalog struct {
	cards map[string]Card
	order []string
}

func NewCatalog(defs []Card) (*Catalog, error) {
	c := &Catalog{cards: make(map[string]Card, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.cards[d.Name]; dup {
			return nil, fmt.Errorf("duplicate card: %s", d.Name)
		}
		c.cards[d.Name] = d.Clone()
		c.order = append(c.order, d.Name)
	}
	return c, nil
}

type catalogFile struct {
	Cards []Card `yaml:"cards"`
}

// LoadCatalog reads a YAML file with a top-level `cards:` list.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewCatalog(f.Cards)
}

func (c *Catalog) Get(name string) (Card, error) {
	d, ok := c.cards[name]
	if !ok {
		return Card{}, fmt.Errorf("%w: %s", ErrUnknownCard, name)
	}
	return d.Clone(), nil
}

// List returns the definitions in file order.
func (c *Catalog) List() []Card {
	out := make([]Card, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.cards[name].Clone())
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
