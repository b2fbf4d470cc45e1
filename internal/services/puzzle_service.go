package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/crossword-server/internal/constants"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"github.com/yukikurage/crossword-server/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrInvalidSort    = errors.New("sort_by must be one of date, title, solved_count")
	ErrInvalidOrder   = errors.New("order must be asc or desc")
)

// PuzzleService handles puzzle business logic
type PuzzleService struct {
	puzzleRepo repository.PuzzleRepository
	statsRepo  repository.StatsRepository
}

// NewPuzzleService creates a new PuzzleService
func NewPuzzleService(puzzleRepo repository.PuzzleRepository, statsRepo repository.StatsRepository) *PuzzleService {
	return &PuzzleService{
		puzzleRepo: puzzleRepo,
		statsRepo:  statsRepo,
	}
}

// ListPuzzlesInput represents filters for listing puzzles
type ListPuzzlesInput struct {
	SortBy string
	Order  string
	Tag    string
}

// ListPuzzles lists puzzles. SortBy defaults to date and Order to desc.
func (s *PuzzleService) ListPuzzles(ctx context.Context, input ListPuzzlesInput) ([]models.Puzzle, error) {
	filter := repository.PuzzleFilter{
		Tag:        strings.ToLower(strings.TrimSpace(input.Tag)),
		Descending: true,
	}

	switch input.SortBy {
	case "", string(repository.SortByDate):
		filter.SortBy = repository.SortByDate
	case string(repository.SortByTitle):
		filter.SortBy = repository.SortByTitle
	case string(repository.SortBySolvedCount):
		filter.SortBy = repository.SortBySolvedCount
	default:
		return nil, ErrInvalidSort
	}

	switch strings.ToLower(input.Order) {
	case "", "desc":
	case "asc":
		filter.Descending = false
	default:
		return nil, ErrInvalidOrder
	}

	puzzles, err := s.puzzleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list puzzles: %w", err)
	}
	return puzzles, nil
}

// GetPuzzle retrieves a puzzle by ID
func (s *PuzzleService) GetPuzzle(ctx context.Context, id uint64) (*models.Puzzle, error) {
	p, err := s.puzzleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPuzzleNotFound
		}
		return nil, fmt.Errorf("failed to find puzzle: %w", err)
	}
	return p, nil
}

// CreatePuzzleInput represents input for creating a puzzle
type CreatePuzzleInput struct {
	AuthorID    uint64
	Title       string
	Grid        puzzle.Matrix
	SolutionKey puzzle.Matrix
	Clues       puzzle.ClueSet
	Tags        []string
}

// CreatePuzzle validates and stores a new puzzle. Validation failures are
// returned as *puzzle.ValidationError.
func (s *PuzzleService) CreatePuzzle(ctx context.Context, input CreatePuzzleInput) (*models.Puzzle, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &puzzle.ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return nil, &puzzle.ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", constants.MaxTitleLength)}
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	def, err := puzzle.Build(input.Grid, input.SolutionKey, input.Clues)
	if err != nil {
		return nil, err
	}

	authorID := input.AuthorID
	p := &models.Puzzle{
		Title:       title,
		Grid:        datatypes.NewJSONType(def.Grid.Layout()),
		SolutionKey: datatypes.NewJSONType(def.Key.Matrix()),
		Clues:       datatypes.NewJSONType(def.Clues),
		AuthorID:    &authorID,
	}
	for _, tag := range tags {
		p.Tags = append(p.Tags, models.PuzzleTag{Tag: tag})
	}

	if err := s.puzzleRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create puzzle: %w", err)
	}
	return p, nil
}

// PuzzleStats returns the attempt counters of a puzzle
func (s *PuzzleService) PuzzleStats(ctx context.Context, id uint64) (*repository.PuzzleStatsRow, error) {
	stats, err := s.statsRepo.PuzzleStats(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPuzzleNotFound
		}
		return nil, fmt.Errorf("failed to load puzzle stats: %w", err)
	}
	return stats, nil
}

// normalizeTags lowercases and trims tags, dropping blanks and duplicates.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > constants.MaxTagLength {
			return nil, &puzzle.ValidationError{Field: "tags", Message: fmt.Sprintf("tag %q is longer than %d characters", tag, constants.MaxTagLength)}
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if len(tags) > constants.MaxTags {
		return nil, &puzzle.ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags are allowed", constants.MaxTags)}
	}
	return tags, nil
}
