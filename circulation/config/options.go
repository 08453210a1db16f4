package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

func WithStorage(driver string) Option {
	return func(c *Config) {
		c.Storage = driver
	}
}

func (c *Config) validate() error {
	switch c.Storage {
	case "":
		c.Storage = StoragePostgres
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.Policy.LoanDays <= 0 {
		return fmt.Errorf("loan days must be positive, got %d", c.Policy.LoanDays)
	}
	if c.Policy.LateFeePerDay < 0 {
		return fmt.Errorf("late fee per day must not be negative, got %d", c.Policy.LateFeePerDay)
	}
	if c.Policy.InitialRenewals < 0 {
		return fmt.Errorf("initial renewals must not be negative, got %d", c.Policy.InitialRenewals)
	}
	return nil
}
