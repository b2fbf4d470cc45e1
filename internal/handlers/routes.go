package handlers

import (
	"github.com/yukikurage/crossword-server/internal/middleware"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/services"
	"github.com/yukikurage/crossword-server/internal/session"
)

// Services bundles what the action handlers depend on.
type Services struct {
	Auth        *services.AuthService
	Puzzles     *services.PuzzleService
	Submissions *services.SubmissionService
	Stats       *services.StatsService
	Sessions    *session.Manager
}

// RegisterRoutes installs every action on the dispatcher.
func RegisterRoutes(d *rpc.Dispatcher, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Sessions)
	puzzleHandler := NewPuzzleHandler(svc.Puzzles)
	submissionHandler := NewSubmissionHandler(svc.Submissions)
	statsHandler := NewStatsHandler(svc.Stats)

	requireSession := middleware.RequireSession(svc.Sessions)

	// Public actions
	d.Register("register", authHandler.Register)
	d.Register("login", authHandler.Login)

	// Session actions
	d.Register("logout", authHandler.Logout, requireSession)
	d.Register("whoami", authHandler.WhoAmI, requireSession)

	// Puzzle actions
	d.Register("get_puzzles", puzzleHandler.ListPuzzles, requireSession)
	d.Register("get_puzzle", puzzleHandler.GetPuzzle, requireSession)
	d.Register("create_puzzle", puzzleHandler.CreatePuzzle, requireSession)
	d.Register("get_puzzle_stats", puzzleHandler.PuzzleStats, requireSession)

	// Submission and statistics actions
	d.Register("submit_solution", submissionHandler.SubmitSolution, requireSession)
	d.Register("get_stats", statsHandler.GetStats, requireSession)
	d.Register("get_leaderboard", statsHandler.GetLeaderboard, requireSession)
	d.Register("get_recent_activity", statsHandler.GetRecentActivity, requireSession)
}
