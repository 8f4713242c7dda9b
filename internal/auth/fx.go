package auth

import (
	"github.com/redis/go-redis/v9"
	"github.com/shresthgour/indiamun-backend/internal/auth/otp"
	"github.com/shresthgour/indiamun-backend/internal/auth/repository"
	"github.com/shresthgour/indiamun-backend/internal/auth/service"
	"github.com/shresthgour/indiamun-backend/internal/auth/token"
	"github.com/shresthgour/indiamun-backend/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(newTokenIssuer),
	fx.Provide(newOTPStore),
	fx.Provide(service.NewService),
)

func newTokenIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
}

func newOTPStore(cfg config.Config, log *zap.Logger) otp.Store {
	if cfg.RedisAddr == "" {
		log.Warn("redis not configured, using in-memory otp store")
		return otp.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return otp.NewRedisStore(client)
}
