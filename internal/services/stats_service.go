package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crossword-server/internal/constants"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/utils"
)

var ErrInvalidLeaderboard = errors.New("sort_by must be speed or accuracy")

// LeaderboardKind selects how users are ranked
type LeaderboardKind string

const (
	LeaderboardSpeed    LeaderboardKind = "speed"
	LeaderboardAccuracy LeaderboardKind = "accuracy"
)

// StatsService answers statistics queries
type StatsService struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(userRepo repository.UserRepository, statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{
		userRepo:  userRepo,
		statsRepo: statsRepo,
	}
}

// UserStats returns the caller's aggregates
func (s *StatsService) UserStats(ctx context.Context, userID uint64) (*models.UserStats, error) {
	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return stats, nil
}

// Leaderboard holds exactly one populated ranking
type Leaderboard struct {
	Kind     LeaderboardKind
	Speed    []repository.SpeedRow
	Accuracy []repository.AccuracyRow
}

// Leaderboard ranks the top users. Speed needs a minimum number of correct
// submissions, accuracy a minimum number of submissions overall.
func (s *StatsService) Leaderboard(ctx context.Context, kind string) (*Leaderboard, error) {
	switch LeaderboardKind(kind) {
	case "", LeaderboardSpeed:
		rows, err := s.statsRepo.SpeedLeaderboard(ctx, constants.LeaderboardMinCorrect, constants.LeaderboardSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load speed leaderboard: %w", err)
		}
		return &Leaderboard{Kind: LeaderboardSpeed, Speed: rows}, nil
	case LeaderboardAccuracy:
		rows, err := s.statsRepo.AccuracyLeaderboard(ctx, constants.LeaderboardMinSubmissions, constants.LeaderboardSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load accuracy leaderboard: %w", err)
		}
		return &Leaderboard{Kind: LeaderboardAccuracy, Accuracy: rows}, nil
	default:
		return nil, ErrInvalidLeaderboard
	}
}

// RecentActivity lists the newest submissions. A zero limit means the
// default; other values are clamped to the allowed range.
func (s *StatsService) RecentActivity(ctx context.Context, limit int) ([]repository.ActivityRow, error) {
	limit = utils.ClampLimit(limit, constants.DefaultActivityLimit, constants.MaxActivityLimit)
	rows, err := s.statsRepo.RecentActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}
	return rows, nil
}
