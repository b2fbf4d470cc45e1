package dto

import (
	"time"

	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"github.com/yukikurage/crossword-server/internal/repository"
)

// SubmitResponse is the graded outcome of submit_solution
type SubmitResponse struct {
	SubmissionID   uint64         `json:"submission_id"`
	IsCorrect      bool           `json:"is_correct"`
	Message        string         `json:"message"`
	IncorrectCells []puzzle.Coord `json:"incorrect_cells"`
}

// UserStatsResponse is the data of get_stats
type UserStatsResponse struct {
	PuzzlesSolved int64      `json:"puzzles_solved"`
	AvgTime       float64    `json:"avg_time"`
	LastLogin     *time.Time `json:"last_login"`
}

// SpeedEntryDTO is one row of the speed leaderboard
type SpeedEntryDTO struct {
	Rank        int     `json:"rank"`
	UserID      uint64  `json:"user_id"`
	Username    string  `json:"username"`
	AvgTime     float64 `json:"avg_time"`
	SolvedCount int64   `json:"solved_count"`
}

// AccuracyEntryDTO is one row of the accuracy leaderboard
type AccuracyEntryDTO struct {
	Rank          int     `json:"rank"`
	UserID        uint64  `json:"user_id"`
	Username      string  `json:"username"`
	Accuracy      float64 `json:"accuracy"`
	TotalAttempts int64   `json:"total_attempts"`
}

// LeaderboardResponse is the data of get_leaderboard. Leaderboard holds
// either speed or accuracy entries, as named by SortBy.
type LeaderboardResponse struct {
	SortBy      string `json:"sort_by"`
	Leaderboard any    `json:"leaderboard"`
}

// ActivityDTO is one recent submission
type ActivityDTO struct {
	Username    string         `json:"username"`
	PuzzleID    uint64         `json:"puzzle_id"`
	PuzzleTitle string         `json:"puzzle_title"`
	Result      models.Outcome `json:"result"`
	TimeTaken   float64        `json:"time_taken"`
	Timestamp   time.Time      `json:"timestamp"`
}

// ActivityResponse is the data of get_recent_activity
type ActivityResponse struct {
	Activities []ActivityDTO `json:"activities"`
}

// PuzzleStatsResponse is the data of get_puzzle_stats
type PuzzleStatsResponse struct {
	PuzzleID        uint64     `json:"puzzle_id"`
	SolvedCount     int64      `json:"solved_count"`
	LastSolved      *time.Time `json:"last_solved"`
	Attempts        int64      `json:"attempts"`
	CorrectAttempts int64      `json:"correct_attempts"`
}

// ToSpeedEntries ranks speed rows from 1
func ToSpeedEntries(rows []repository.SpeedRow) []SpeedEntryDTO {
	entries := make([]SpeedEntryDTO, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, SpeedEntryDTO{
			Rank:        i + 1,
			UserID:      r.UserID,
			Username:    r.Username,
			AvgTime:     r.AvgTime,
			SolvedCount: r.SolvedCount,
		})
	}
	return entries
}

// ToAccuracyEntries ranks accuracy rows from 1
func ToAccuracyEntries(rows []repository.AccuracyRow) []AccuracyEntryDTO {
	entries := make([]AccuracyEntryDTO, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, AccuracyEntryDTO{
			Rank:          i + 1,
			UserID:        r.UserID,
			Username:      r.Username,
			Accuracy:      r.Accuracy,
			TotalAttempts: r.TotalAttempts,
		})
	}
	return entries
}

// ToActivityResponse converts activity rows
func ToActivityResponse(rows []repository.ActivityRow) ActivityResponse {
	activities := make([]ActivityDTO, 0, len(rows))
	for _, r := range rows {
		activities = append(activities, ActivityDTO{
			Username:    r.Username,
			PuzzleID:    r.PuzzleID,
			PuzzleTitle: r.PuzzleTitle,
			Result:      r.Outcome,
			TimeTaken:   r.TimeTaken,
			Timestamp:   r.SubmittedAt,
		})
	}
	return ActivityResponse{Activities: activities}
}
