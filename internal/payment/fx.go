package payment

import (
	"github.com/shresthgour/indiamun-backend/internal/config"
	"github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"github.com/shresthgour/indiamun-backend/internal/payment/razorpay"
	"github.com/shresthgour/indiamun-backend/internal/payment/repository"
	"github.com/shresthgour/indiamun-backend/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(cfg config.Config) domain.Client {
		return razorpay.New(cfg)
	}),
	fx.Provide(service.NewService),
)
