package sqlstore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// resolveDialector returns the gorm.Dialector for cfg.Type, or an error if
// the type is unsupported.
func resolveDialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlstore: sqlite DSN (file path) must not be empty")
		}
		return sqlite.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported database type %q", cfg.Type)
	}
}

// Open opens a *gorm.DB for cfg using the resolved dialect.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := resolveDialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: failed to open %s connection: %w", cfg.Type, err)
	}
	return db, nil
}
