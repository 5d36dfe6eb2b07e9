package migration

import (
	"database/sql"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/internal/config"
	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run migrates per driver: versioned SQL on postgres, AutoMigrate on the
// sqlite development database.
func Run(cfg config.Config, sqlDB *sql.DB, gdb *gorm.DB, log *zap.Logger) error {
	log = log.Named("migration")

	if cfg.DB.Driver == "postgres" {
		log.Info("applying versioned migrations")
		return RunMigrations(sqlDB)
	}

	log.Info("auto-migrating development schema")
	if err := gdb.AutoMigrate(
		&customerdomain.Client{},
		&customerdomain.Location{},
		&shiftdomain.Shift{},
		&ratesdomain.RateTable{},
		&invoicedomain.Invoice{},
	); err != nil {
		return err
	}
	return gdb.Exec(
		`CREATE TABLE IF NOT EXISTS invoice_sequences (year INTEGER PRIMARY KEY, last_value BIGINT NOT NULL)`,
	).Error
}
