package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup.timeout must be > 0 (got %v)", c.Lookup.Timeout)
	}
	if c.Lookup.BatchWorkers < 1 {
		return fmt.Errorf("lookup.batch_workers must be >= 1 (got %d)", c.Lookup.BatchWorkers)
	}
	if strings.TrimSpace(c.Lookup.Language) == "" {
		return fmt.Errorf("lookup.language must be set")
	}
	if strings.TrimSpace(c.Lookup.Provider) == "" {
		return fmt.Errorf("lookup.provider must be set")
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path must be set for the sqlite driver")
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr must be set for the redis driver")
		}
	default:
		return fmt.Errorf("store.driver must be %s or %s (got %q)", DriverSQLite, DriverRedis, c.Store.Driver)
	}
	return nil
}
