package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/seed"
	"github.com/yukikurage/crossword-server/internal/services"
	"github.com/yukikurage/crossword-server/internal/session"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the demo user and sample puzzles",
	Long:  "Creates the user " + seed.DemoUsername + " and the sample puzzles. Existing data is left alone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		defer sqlDB.Close()

		userRepo := repository.NewUserRepository(db)
		puzzleRepo := repository.NewPuzzleRepository(db)
		sessions := session.NewManager(cfg.SessionTTL)

		result, err := seed.Run(cmd.Context(),
			services.NewAuthService(userRepo, sessions, services.NewBcryptHasher()),
			services.NewPuzzleService(puzzleRepo, repository.NewStatsRepository(db)),
			userRepo,
		)
		if err != nil {
			return err
		}

		log.Info().Bool("user_created", result.UserCreated).Int("puzzles_created", result.PuzzlesCreated).Msg("Seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
