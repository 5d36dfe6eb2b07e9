// @title           Paswerk Billing API
// @version         1.0
// @description     Shift-to-invoice billing API

// @host      localhost:8080
// @BasePath  /v1
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/billing"
	"github.com/paswerklabs/paswerk/internal/clock"
	"github.com/paswerklabs/paswerk/internal/config"
	"github.com/paswerklabs/paswerk/internal/customer"
	"github.com/paswerklabs/paswerk/internal/holiday"
	"github.com/paswerklabs/paswerk/internal/invoice"
	"github.com/paswerklabs/paswerk/internal/observability"
	"github.com/paswerklabs/paswerk/internal/rates"
	"github.com/paswerklabs/paswerk/internal/redis"
	"github.com/paswerklabs/paswerk/internal/server"
	"github.com/paswerklabs/paswerk/internal/shift"
	"github.com/paswerklabs/paswerk/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
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

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
