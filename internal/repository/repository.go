package repository

import (
	"context"
	"time"

	"github.com/yukikurage/crossword-server/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithStats creates a user and its zeroed statistics row within a
	// single transaction.
	CreateWithStats(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// TouchLastLogin records a successful login
	TouchLastLogin(ctx context.Context, userID uint64, at time.Time) error

	// GetStats returns the user's aggregates
	GetStats(ctx context.Context, userID uint64) (*models.UserStats, error)
}

// SessionRepository persists session tokens
type SessionRepository interface {
	// Save stores a session and removes every other session of the same user
	Save(ctx context.Context, session *models.Session) error

	// Delete removes a session by token
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions that expired at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// ListActive returns sessions still valid at now
	ListActive(ctx context.Context, now time.Time) ([]models.Session, error)
}

// PuzzleRepository defines the interface for puzzle data access
type PuzzleRepository interface {
	// Create stores a puzzle together with its tags
	Create(ctx context.Context, puzzle *models.Puzzle) error

	// FindByID finds a puzzle by ID with its author and tags
	FindByID(ctx context.Context, id uint64) (*models.Puzzle, error)

	// List retrieves puzzles with filtering and sorting
	List(ctx context.Context, filter PuzzleFilter) ([]models.Puzzle, error)
}

// PuzzleSort names a column puzzles can be listed by
type PuzzleSort string

const (
	SortByDate        PuzzleSort = "date"
	SortByTitle       PuzzleSort = "title"
	SortBySolvedCount PuzzleSort = "solved_count"
)

// PuzzleFilter holds filtering options for listing puzzles
type PuzzleFilter struct {
	Tag        string
	SortBy     PuzzleSort
	Descending bool
}

// SubmissionRepository records graded attempts
type SubmissionRepository interface {
	// Record stores a submission. A correct one also bumps the puzzle's
	// solved counters and the user's averages, all in one transaction.
	Record(ctx context.Context, submission *models.Submission) error
}

// StatsRepository answers aggregate queries over submissions
type StatsRepository interface {
	// SpeedLeaderboard ranks users by mean correct solve time
	SpeedLeaderboard(ctx context.Context, minCorrect, limit int) ([]SpeedRow, error)

	// AccuracyLeaderboard ranks users by share of correct submissions
	AccuracyLeaderboard(ctx context.Context, minSubmissions, limit int) ([]AccuracyRow, error)

	// RecentActivity lists the newest submissions
	RecentActivity(ctx context.Context, limit int) ([]ActivityRow, error)

	// PuzzleStats counts attempts on one puzzle
	PuzzleStats(ctx context.Context, puzzleID uint64) (*PuzzleStatsRow, error)
}

type SpeedRow struct {
	UserID      uint64
	Username    string
	AvgTime     float64
	SolvedCount int64
}

type AccuracyRow struct {
	UserID        uint64
	Username      string
	Accuracy      float64
	TotalAttempts int64
}

type ActivityRow struct {
	SubmissionID uint64
	Username     string
	PuzzleID     uint64
	PuzzleTitle  string
	Outcome      models.Outcome
	TimeTaken    float64
	SubmittedAt  time.Time
}

type PuzzleStatsRow struct {
	PuzzleID        uint64
	SolvedCount     int64
	LastSolved      *time.Time
	Attempts        int64
	CorrectAttempts int64
}
