package pdf

import (
	"github.com/shresthgour/indiamun-backend/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewMaroto(cfg.AppName, cfg.SMTPFrom)
}
