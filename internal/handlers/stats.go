package handlers

import (
	"context"
	"errors"

	"github.com/yukikurage/crossword-server/internal/dto"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/middleware"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/services"
)

// StatsHandler serves personal and global statistics.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats handles get_stats for the authenticated user.
func (h *StatsHandler) GetStats(ctx context.Context, call *rpc.Call) rpc.Result {
	userID, ok := middleware.GetUserID(call)
	if !ok {
		return rpc.Failure(apierrors.ErrAuthRequired)
	}

	stats, err := h.statsService.UserStats(ctx, userID)
	if err != nil {
		return rpc.Failure(err)
	}

	return rpc.Success("Stats retrieved", dto.UserStatsResponse{
		PuzzlesSolved: stats.PuzzlesSolved,
		AvgTime:       stats.AvgTime,
		LastLogin:     stats.LastLogin,
	})
}

// GetLeaderboard handles get_leaderboard.
func (h *StatsHandler) GetLeaderboard(ctx context.Context, call *rpc.Call) rpc.Result {
	type LeaderboardRequest struct {
		SortBy string `json:"sort_by"`
	}

	req, err := rpc.Bind[LeaderboardRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}

	board, err := h.statsService.Leaderboard(ctx, req.SortBy)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLeaderboard) {
			return rpc.Failure(apierrors.Validation("sort_by", err.Error()))
		}
		return rpc.Failure(err)
	}

	resp := dto.LeaderboardResponse{SortBy: string(board.Kind)}
	if board.Kind == services.LeaderboardAccuracy {
		resp.Leaderboard = dto.ToAccuracyEntries(board.Accuracy)
	} else {
		resp.Leaderboard = dto.ToSpeedEntries(board.Speed)
	}
	return rpc.Success("Leaderboard retrieved", resp)
}

// GetRecentActivity handles get_recent_activity.
func (h *StatsHandler) GetRecentActivity(ctx context.Context, call *rpc.Call) rpc.Result {
	type ActivityRequest struct {
		Limit int `json:"limit"`
	}

	req, err := rpc.Bind[ActivityRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}

	rows, err := h.statsService.RecentActivity(ctx, req.Limit)
	if err != nil {
		return rpc.Failure(err)
	}

	return rpc.Success("Recent activity retrieved", dto.ToActivityResponse(rows))
}
