// Package seed loads the demo account and sample puzzles.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/services"
)

const (
	DemoUsername = "test"
	DemoPassword = "test123"
)

// Sample is a puzzle installed by Run.
type Sample struct {
	Title       string
	Grid        []string
	SolutionKey []string
	Across      []string
	Down        []string
	Tags        []string
}

// Samples are the puzzles every fresh install starts with.
var Samples = []Sample{
	{
		Title:       "Hello World",
		Grid:        []string{"#...#", ".....", ".....", ".....", "#...#"},
		SolutionKey: []string{"#HEY#", "WORLD", "HELLO", "BRAVE", "#SAD#"},
		Across:      []string{"Informal greeting", "Planet Earth", "Common greeting", "Courageous", "Unhappy"},
		Down:        []string{"Hold up", "Wear away", "Golden", "Shade", "Actor's part"},
		Tags:        []string{"easy", "beginner"},
	},
	{
		Title:       "Word Square",
		Grid:        []string{"...", "...", "..."},
		SolutionKey: []string{"BAT", "APE", "TEN"},
		Across:      []string{"Flying mammal", "Primate", "Number after nine"},
		Down:        []string{"Cricket club", "Mimic", "A perfect score"},
		Tags:        []string{"animals", "easy"},
	},
}

// Result counts what Run created.
type Result struct {
	UserCreated    bool
	PuzzlesCreated int
}

// Run creates the demo user and any sample puzzle whose title is not
// already present. Running it twice is harmless.
func Run(ctx context.Context, auth *services.AuthService, puzzles *services.PuzzleService, users repository.UserRepository) (Result, error) {
	var result Result

	user, err := auth.Register(ctx, services.RegisterInput{Username: DemoUsername, Password: DemoPassword})
	switch {
	case err == nil:
		result.UserCreated = true
	case errors.Is(err, services.ErrUsernameTaken):
		if user, err = users.FindByUsername(ctx, DemoUsername); err != nil {
			return result, fmt.Errorf("failed to load demo user: %w", err)
		}
	default:
		return result, fmt.Errorf("failed to create demo user: %w", err)
	}

	existing, err := puzzles.ListPuzzles(ctx, services.ListPuzzlesInput{})
	if err != nil {
		return result, fmt.Errorf("failed to list puzzles: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, p := range existing {
		titles[p.Title] = true
	}

	for _, sample := range Samples {
		if titles[sample.Title] {
			continue
		}
		p, err := puzzles.CreatePuzzle(ctx, sample.input(user))
		if err != nil {
			return result, fmt.Errorf("failed to create sample %q: %w", sample.Title, err)
		}
		result.PuzzlesCreated++
		log.Info().Uint64("puzzle_id", p.ID).Str("title", p.Title).Msg("Seed: puzzle created")
	}

	return result, nil
}

func (s Sample) input(author *models.User) services.CreatePuzzleInput {
	clues := puzzle.ClueSet{}
	for _, text := range s.Across {
		clues.Across = append(clues.Across, puzzle.ClueInput{Text: text})
	}
	for _, text := range s.Down {
		clues.Down = append(clues.Down, puzzle.ClueInput{Text: text})
	}
	return services.CreatePuzzleInput{
		AuthorID:    author.ID,
		Title:       s.Title,
		Grid:        toMatrix(s.Grid),
		SolutionKey: toMatrix(s.SolutionKey),
		Clues:       clues,
		Tags:        s.Tags,
	}
}

func toMatrix(rows []string) puzzle.Matrix {
	m := make(puzzle.Matrix, len(rows))
	for i, row := range rows {
		for _, ch := range row {
			m[i] = append(m[i], string(ch))
		}
	}
	return m
}
