package main

import (
	"fmt"
	"log/slog"

	"tomgalvin.uk/monobmp/internal/library"
)

func NewRepository(c Config, logger *slog.Logger) (*library.Repository, error) {
	r, err := library.Open(c.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open bitmap library at %s:\n%w", c.DatabaseURL, err)
	}
	return r, nil
}
