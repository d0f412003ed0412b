package card

import "fmt"

func (c Card) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("card name is required")
	}
	if c.PointCost < 0 {
		return fmt.Errorf("point_cost must be >= 0 for %s", c.Name)
	}
	if c.BuyPrice < 0 {
		return fmt.Errorf("buy_price must be >= 0 for %s", c.Name)
	}
	if _, ok := tierNames[c.Tier]; !ok {
		return fmt.Errorf("unknown tier %d for %s", int(c.Tier), c.Name)
	}

	for i, e := range c.Effects {
		if !e.Stat.Valid() {
			return fmt.Errorf("effect %d of %s: unknown stat %q", i, c.Name, e.Stat)
		}
		if err := e.Modifier.Validate(); err != nil {
			return fmt.Errorf("effect %d of %s: %w", i, c.Name, err)
		}
	}

	return nil
}
