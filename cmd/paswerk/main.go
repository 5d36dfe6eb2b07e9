package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/paswerklabs/paswerk/internal/billing"
	"github.com/paswerklabs/paswerk/internal/clock"
	"github.com/paswerklabs/paswerk/internal/config"
	"github.com/paswerklabs/paswerk/internal/customer"
	"github.com/paswerklabs/paswerk/internal/holiday"
	"github.com/paswerklabs/paswerk/internal/invoice"
	"github.com/paswerklabs/paswerk/internal/migration"
	"github.com/paswerklabs/paswerk/internal/observability"
	"github.com/paswerklabs/paswerk/internal/rates"
	"github.com/paswerklabs/paswerk/internal/redis"
	"github.com/paswerklabs/paswerk/internal/seed"
	"github.com/paswerklabs/paswerk/internal/server"
	"github.com/paswerklabs/paswerk/internal/shift"
	"github.com/paswerklabs/paswerk/pkg/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "paswerk",
		Short:   "Paswerk CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newSeedCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a development database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start the billing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runServe()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		holiday.Module,
		customer.Module,
		shift.Module,
		rates.Module,
		billing.Module,
		invoice.Module,
		server.Module,
	)
	app.Run()
}

func runSeed() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		fx.Invoke(func(gdb *gorm.DB) error {
			return seed.EnsureDemoData(gdb)
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
