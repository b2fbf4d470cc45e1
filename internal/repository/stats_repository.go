package repository

import (
	"context"

	"github.com/yukikurage/crossword-server/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

// SpeedLeaderboard ranks users with at least minCorrect correct submissions
// by their mean correct time, fastest first.
func (r *GormStatsRepository) SpeedLeaderboard(ctx context.Context, minCorrect, limit int) ([]SpeedRow, error) {
	var rows []SpeedRow
	err := r.db.WithContext(ctx).
		Table("submissions AS s").
		Select("s.user_id AS user_id, u.username AS username, AVG(s.time_taken) AS avg_time, COUNT(*) AS solved_count").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.outcome = ?", models.OutcomeCorrect).
		Group("s.user_id, u.username").
		Having("COUNT(*) >= ?", minCorrect).
		Order("avg_time ASC, s.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// AccuracyLeaderboard ranks users with at least minSubmissions submissions
// by the percentage of them that were correct.
func (r *GormStatsRepository) AccuracyLeaderboard(ctx context.Context, minSubmissions, limit int) ([]AccuracyRow, error) {
	var rows []AccuracyRow
	err := r.db.WithContext(ctx).
		Table("submissions AS s").
		Select("s.user_id AS user_id, u.username AS username, "+
			"SUM(CASE WHEN s.outcome = ? THEN 1 ELSE 0 END) * 100.0 / COUNT(*) AS accuracy, "+
			"COUNT(*) AS total_attempts", models.OutcomeCorrect).
		Joins("JOIN users u ON u.id = s.user_id").
		Group("s.user_id, u.username").
		Having("COUNT(*) >= ?", minSubmissions).
		Order("accuracy DESC, s.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecentActivity lists the newest submissions with their user and puzzle.
func (r *GormStatsRepository) RecentActivity(ctx context.Context, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.db.WithContext(ctx).
		Table("submissions AS s").
		Select("s.id AS submission_id, u.username AS username, p.id AS puzzle_id, p.title AS puzzle_title, " +
			"s.outcome AS outcome, s.time_taken AS time_taken, s.submitted_at AS submitted_at").
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("JOIN puzzles p ON p.id = s.puzzle_id").
		Order("s.submitted_at DESC, s.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// PuzzleStats returns the counters of one puzzle, or gorm.ErrRecordNotFound.
func (r *GormStatsRepository) PuzzleStats(ctx context.Context, puzzleID uint64) (*PuzzleStatsRow, error) {
	var puzzle models.Puzzle
	err := r.db.WithContext(ctx).
		Select("id", "solved_count", "last_solved").
		First(&puzzle, puzzleID).Error
	if err != nil {
		return nil, err
	}

	var counts struct {
		Attempts        int64
		CorrectAttempts int64
	}
	err = r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COUNT(*) AS attempts, COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS correct_attempts", models.OutcomeCorrect).
		Where("puzzle_id = ?", puzzleID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return &PuzzleStatsRow{
		PuzzleID:        puzzle.ID,
		SolvedCount:     puzzle.SolvedCount,
		LastSolved:      puzzle.LastSolved,
		Attempts:        counts.Attempts,
		CorrectAttempts: counts.CorrectAttempts,
	}, nil
}
