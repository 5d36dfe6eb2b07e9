package rates

import (
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/rates/repository"
	"github.com/paswerklabs/paswerk/internal/rates/service"
)

var Module = fx.Module("rates.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
