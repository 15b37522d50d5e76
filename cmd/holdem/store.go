package main

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-trainer/internal/profile"
)

type StoreCmd struct {
	Amount int `help:"Chips to collect (defaults to the configured store amount)"`
}

func (c *StoreCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	amount := c.Amount
	if amount == 0 {
		amount = cfg.Profile.StoreChips
	}

	store := profile.NewStore(cfg.Profile.Path, cfg.Profile.StartingChips)
	p, err := store.AddChips(amount)
	if errors.Is(err, profile.ErrNonPositive) {
		return fmt.Errorf("--amount must be positive, got %d", amount)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Added %d free chips. %s now has %d chips.\n", amount, p.Name, p.Chips)
	return nil
}
