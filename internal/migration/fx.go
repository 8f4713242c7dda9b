package migration

import (
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	"github.com/shresthgour/indiamun-backend/internal/config"
	enrolldomain "github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres targets (local sqlite, mysql) use gorm's schema
		// sync instead of versioned migrations.
		return conn.AutoMigrate(
			&authdomain.User{},
			&paymentdomain.Order{},
			&paymentdomain.Payment{},
			&paymentdomain.Subscription{},
			&enrolldomain.Record{},
		)
	}),
)
