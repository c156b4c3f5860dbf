package config

import "strings"

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig selects the backing store for the catalog.
type DatabaseConfig struct {
	Driver           string
	ConnectionString string
	SlowQuery        Duration
	Seed             bool
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Driver:           normalizeDriver(envOrDefault(envDBDriver, defaultDBDriver)),
		ConnectionString: envOrDefault(envConnString, defaultConnString),
		SlowQuery:        durationEnvOrDefault(envSlowQuery, defaultSlowQuery),
		Seed:             boolEnvOrDefault(envSeedData, defaultSeedData),
	}
}

// normalizeDriver folds driver aliases. Unknown names pass through so that
// store.Open rejects them.
func normalizeDriver(raw string) string {
	driver := strings.ToLower(strings.TrimSpace(raw))
	switch driver {
	case DriverPostgres, "postgresql", "pg":
		return DriverPostgres
	case DriverMemory, "inmemory", "mem":
		return DriverMemory
	case DriverSQLite, "sqlite3", "":
		return DriverSQLite
	default:
		return driver
	}
}
