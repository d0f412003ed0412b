package wallet

import "sync"

// Purse tracks the player's coin balance.
type Purse struct {
	mu    sync.RWMutex
	coins int
}

func NewPurse(coins int) *Purse {
	if coins < 0 {
		coins = 0
	}
	return &Purse{coins: coins}
}

// Grant adds coins. Non-positive amounts are ignored.
func (p *Purse) Grant(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coins += amount
}

// Spend removes amount if the balance covers it.
func (p *Purse) Spend(amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.coins < amount {
		return false
	}
	p.coins -= amount
	return true
}

func (p *Purse) Has(amount int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.coins >= amount
}

func (p *Purse) Balance() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.coins
}
