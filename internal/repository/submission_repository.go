package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crossword-server/internal/models"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateSubmission is returned when inserting the submission row fails.
	ErrCreateSubmission = errors.New("submission repository: create submission failed")
	// ErrUpdatePuzzleStats is returned when bumping the puzzle counters fails.
	ErrUpdatePuzzleStats = errors.New("submission repository: update puzzle stats failed")
	// ErrUpdateUserStats is returned when folding the time into the user's average fails.
	ErrUpdateUserStats = errors.New("submission repository: update user stats failed")
)

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Record stores the submission and, when it is correct, updates the
// aggregates with single-statement read-modify-write updates. avg_time is
// assigned before puzzles_solved so that every dialect computes it from the
// pre-increment count.
func (r *GormSubmissionRepository) Record(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateSubmission, err)
		}

		if submission.Outcome != models.OutcomeCorrect {
			return nil
		}

		err := tx.Model(&models.Puzzle{}).
			Where("id = ?", submission.PuzzleID).
			Updates(map[string]interface{}{
				"solved_count": gorm.Expr("solved_count + 1"),
				"last_solved":  submission.SubmittedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpdatePuzzleStats, err)
		}

		if err := ensureUserStats(tx, submission.UserID); err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateUserStats, err)
		}

		err = tx.Exec(
			"UPDATE user_stats SET avg_time = (avg_time * puzzles_solved + ?) / (puzzles_solved + 1), puzzles_solved = puzzles_solved + 1 WHERE user_id = ?",
			submission.TimeTaken, submission.UserID,
		).Error
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateUserStats, err)
		}

		return nil
	})
}

// ensureUserStats creates a zeroed statistics row when the user has none.
func ensureUserStats(tx *gorm.DB, userID uint64) error {
	return tx.Where(models.UserStats{UserID: userID}).
		FirstOrCreate(&models.UserStats{}).Error
}
