// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the Postgres connection string. Time zone is pinned to UTC so
// contract and MSA timestamps compare consistently across regions.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
