package enrollment

import (
	"github.com/shresthgour/indiamun-backend/internal/enrollment/repository"
	"github.com/shresthgour/indiamun-backend/internal/enrollment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enrollment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
