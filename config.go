package main

import (
	"fmt"
	"log/slog"
)

type Config struct {
	Addr        string
	DatabaseURL string
	LogLevel    slog.Level
}

// LoadConfig reads MONOBMP_ADDR, MONOBMP_DB and MONOBMP_LOG_LEVEL through
// getenv, falling back to defaults for unset variables.
func LoadConfig(getenv func(string) string) (Config, error) {
	c := Config{
		Addr:        ":8080",
		DatabaseURL: "file:monobmp.db",
		LogLevel:    slog.LevelInfo,
	}
	if v := getenv("MONOBMP_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("MONOBMP_DB"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("MONOBMP_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("Bad MONOBMP_LOG_LEVEL:\n%w", err)
		}
	}
	return c, nil
}
