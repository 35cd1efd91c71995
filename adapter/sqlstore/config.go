// Package sqlstore provides a GORM-backed Reader and Writer over a SQL
// table, supporting sqlite, mysql, and postgres through a dialect resolver.
package sqlstore

// Config describes one SQL connection and the table a Reader or Writer
// operates against. Decode it from a raw adapter config map with
// configbinder.BindProperties.
type Config struct {
	// Type selects the dialect: "sqlite", "mysql", or "postgres".
	Type string `yaml:"type"`
	// DSN is the driver-specific data source name (a file path for sqlite).
	DSN string `yaml:"dsn"`
	// Table is the name of the table records are read from or written to.
	Table string `yaml:"table"`
}
