package db

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/internal/config"
)

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Provide(SQLDB),
)

// Open connects per config. Postgres in production; sqlite is kept for local
// development and mirrors what the test suites use.
func Open(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DB.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DB.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

// SQLDB exposes the underlying handle for the migrator.
func SQLDB(gdb *gorm.DB) (*sql.DB, error) {
	return gdb.DB()
}
