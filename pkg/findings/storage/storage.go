package storage

import (
	"fmt"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
)

// New opens the backend selected by cfg.Backend.
func New(cfg config.FindingsConfig) (findings.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(cfg.SQLite)
	default:
		return nil, findings.NewStorageError(cfg.Backend, "open",
			fmt.Errorf("unsupported backend %q (valid: memory, sqlite)", cfg.Backend))
	}
}
