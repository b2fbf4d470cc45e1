package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"github.com/yukikurage/crossword-server/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidTimeTaken = errors.New("time_taken must be a non-negative number")
	ErrGridMismatch     = errors.New("grid dimensions do not match the puzzle")
	ErrCorruptPuzzle    = errors.New("stored solution key is unreadable")
)

// SubmissionService grades submissions and records them
type SubmissionService struct {
	puzzleRepo     repository.PuzzleRepository
	submissionRepo repository.SubmissionRepository
	now            func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(puzzleRepo repository.PuzzleRepository, submissionRepo repository.SubmissionRepository) *SubmissionService {
	return &SubmissionService{
		puzzleRepo:     puzzleRepo,
		submissionRepo: submissionRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SubmitInput is one attempt at a puzzle
type SubmitInput struct {
	UserID    uint64
	PuzzleID  uint64
	Grid      puzzle.Matrix
	TimeTaken float64
}

// SubmitResult is the graded outcome
type SubmitResult struct {
	SubmissionID   uint64
	Correct        bool
	IncorrectCells []puzzle.Coord
}

// Submit grades the grid against the puzzle's key and records the attempt.
// Correct attempts update the puzzle and user aggregates atomically.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if math.IsNaN(input.TimeTaken) || math.IsInf(input.TimeTaken, 0) || input.TimeTaken < 0 {
		return nil, ErrInvalidTimeTaken
	}

	p, err := s.puzzleRepo.FindByID(ctx, input.PuzzleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPuzzleNotFound
		}
		return nil, fmt.Errorf("failed to find puzzle: %w", err)
	}

	key, err := puzzle.KeyFromMatrix(p.SolutionKey.Data())
	if err != nil {
		return nil, fmt.Errorf("%w: puzzle %d: %v", ErrCorruptPuzzle, p.ID, err)
	}

	result, err := key.Grade(input.Grid)
	if err != nil {
		if errors.Is(err, puzzle.ErrDimensionMismatch) {
			return nil, ErrGridMismatch
		}
		return nil, err
	}

	outcome := models.OutcomeIncorrect
	if result.Correct {
		outcome = models.OutcomeCorrect
	}

	submission := &models.Submission{
		UserID:         input.UserID,
		PuzzleID:       p.ID,
		Grid:           datatypes.NewJSONType(input.Grid),
		TimeTaken:      input.TimeTaken,
		Outcome:        outcome,
		IncorrectCells: datatypes.NewJSONType(result.Incorrect),
		SubmittedAt:    s.now(),
	}
	if err := s.submissionRepo.Record(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	return &SubmitResult{
		SubmissionID:   submission.ID,
		Correct:        result.Correct,
		IncorrectCells: result.Incorrect,
	}, nil
}
