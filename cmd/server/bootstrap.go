package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/crossword-server/internal/config"
	"github.com/yukikurage/crossword-server/internal/database"
	"github.com/yukikurage/crossword-server/internal/logger"
	"gorm.io/gorm"
)

// bootstrap loads configuration, installs the logger and opens a migrated
// database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if rpcAddr != "" {
		cfg.RPCAddr = rpcAddr
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Database ready")

	return cfg, db, nil
}
