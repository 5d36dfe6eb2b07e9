package customer

import (
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/customer/repository"
)

var Module = fx.Module("customer",
	fx.Provide(repository.Provide),
)
