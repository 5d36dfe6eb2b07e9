package billing

import (
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/billing/service"
)

var Module = fx.Module("billing.segmenter",
	fx.Provide(service.NewSegmenter),
)
