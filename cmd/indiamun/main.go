package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shresthgour/indiamun-backend/internal/config"
	"github.com/shresthgour/indiamun-backend/internal/logger"
	"github.com/shresthgour/indiamun-backend/internal/migration"
	"github.com/shresthgour/indiamun-backend/internal/server"
	"github.com/shresthgour/indiamun-backend/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		migration.Module,
		server.Module,
	).Run()
}
