package kv

import (
	"context"
	"fmt"
	"strings"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds the backend named by driver.
func Open(ctx context.Context, driver string, opts ...Option) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewInMemoryStore(), nil
	case DriverSQLite, "sqlite3":
		s, err := NewSQLiteStore(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres, "postgresql":
		s, err := NewPostgresStore(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
