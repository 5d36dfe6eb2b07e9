package invoice

import (
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/invoice/render"
	"github.com/paswerklabs/paswerk/internal/invoice/repository"
	"github.com/paswerklabs/paswerk/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
