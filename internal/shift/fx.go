package shift

import (
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/shift/repository"
)

var Module = fx.Module("shift",
	fx.Provide(repository.Provide),
)
