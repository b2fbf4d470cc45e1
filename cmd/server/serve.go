package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yukikurage/crossword-server/internal/handlers"
	"github.com/yukikurage/crossword-server/internal/health"
	"github.com/yukikurage/crossword-server/internal/logger"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/scheduler"
	"github.com/yukikurage/crossword-server/internal/server"
	"github.com/yukikurage/crossword-server/internal/services"
	"github.com/yukikurage/crossword-server/internal/session"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the crossword server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	puzzleRepo := repository.NewPuzzleRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	sessions := session.NewManager(cfg.SessionTTL, session.WithStore(repository.NewSessionRepository(db)))
	restored, err := sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	log.Info().Int("sessions", restored).Dur("ttl", cfg.SessionTTL).Msg("Sessions restored")

	// Initialize services and routes
	dispatcher := rpc.NewDispatcher(logger.Component("dispatcher"))
	handlers.RegisterRoutes(dispatcher, handlers.Services{
		Auth:        services.NewAuthService(userRepo, sessions, services.NewBcryptHasher()),
		Puzzles:     services.NewPuzzleService(puzzleRepo, statsRepo),
		Submissions: services.NewSubmissionService(puzzleRepo, submissionRepo),
		Stats:       services.NewStatsService(userRepo, statsRepo),
		Sessions:    sessions,
	})

	srv := server.New(dispatcher, server.Options{
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		MaxConnections:  cfg.MaxConnections,
		MaxMessageBytes: cfg.MaxMessageBytes,
	}, logger.Component("server"))

	sweeper, err := scheduler.New(cfg.SessionSweepSchedule, sessions, logger.Component("scheduler"))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.RPCAddr)
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	if cfg.HealthAddr != "" {
		router := health.NewRouter(health.Deps{
			Sessions:    sessions,
			Connections: srv,
			DB:          sqlDB,
		}, logger.Component("health"))
		g.Go(func() error {
			return health.Serve(gctx, cfg.HealthAddr, router, logger.Component("health"))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Server exiting")
	return nil
}
