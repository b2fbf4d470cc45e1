package handlers

import (
	"context"
	"errors"

	"github.com/yukikurage/crossword-server/internal/dto"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/middleware"
	"github.com/yukikurage/crossword-server/internal/puzzle"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/services"
)

// PuzzleHandler serves puzzle browsing and authoring.
type PuzzleHandler struct {
	puzzleService *services.PuzzleService
}

// NewPuzzleHandler creates a new PuzzleHandler.
func NewPuzzleHandler(puzzleService *services.PuzzleService) *PuzzleHandler {
	return &PuzzleHandler{
		puzzleService: puzzleService,
	}
}

type puzzleIDRequest struct {
	PuzzleID uint64 `json:"puzzle_id"`
}

// ListPuzzles handles get_puzzles.
func (h *PuzzleHandler) ListPuzzles(ctx context.Context, call *rpc.Call) rpc.Result {
	type ListPuzzlesRequest struct {
		SortBy string `json:"sort_by"`
		Order  string `json:"order"`
		Tag    string `json:"tag"`
	}

	req, err := rpc.Bind[ListPuzzlesRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}

	puzzles, err := h.puzzleService.ListPuzzles(ctx, services.ListPuzzlesInput{
		SortBy: req.SortBy,
		Order:  req.Order,
		Tag:    req.Tag,
	})
	if err != nil {
		return respondPuzzleError(err)
	}

	return rpc.Success("Puzzles retrieved", dto.ToPuzzleListResponse(puzzles))
}

// GetPuzzle handles get_puzzle.
func (h *PuzzleHandler) GetPuzzle(ctx context.Context, call *rpc.Call) rpc.Result {
	req, err := rpc.Bind[puzzleIDRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}
	if req.PuzzleID == 0 {
		return rpc.Failure(apierrors.Validation("puzzle_id", "puzzle_id is required"))
	}

	p, err := h.puzzleService.GetPuzzle(ctx, req.PuzzleID)
	if err != nil {
		return respondPuzzleError(err)
	}

	return rpc.Success("Puzzle retrieved", dto.PuzzleResponse{Puzzle: dto.ToPuzzleDTO(*p)})
}

// CreatePuzzle handles create_puzzle. The caller becomes the author.
func (h *PuzzleHandler) CreatePuzzle(ctx context.Context, call *rpc.Call) rpc.Result {
	type CreatePuzzleRequest struct {
		Title       string         `json:"title"`
		Grid        puzzle.Matrix  `json:"grid"`
		Clues       puzzle.ClueSet `json:"clues"`
		SolutionKey puzzle.Matrix  `json:"solution_key"`
		Tags        []string       `json:"tags"`
	}

	userID, ok := middleware.GetUserID(call)
	if !ok {
		return rpc.Failure(apierrors.ErrAuthRequired)
	}

	req, err := rpc.Bind[CreatePuzzleRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}

	p, err := h.puzzleService.CreatePuzzle(ctx, services.CreatePuzzleInput{
		AuthorID:    userID,
		Title:       req.Title,
		Grid:        req.Grid,
		SolutionKey: req.SolutionKey,
		Clues:       req.Clues,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondPuzzleError(err)
	}

	return rpc.Success("Puzzle created", dto.CreatePuzzleResponse{PuzzleID: p.ID})
}

// PuzzleStats handles get_puzzle_stats.
func (h *PuzzleHandler) PuzzleStats(ctx context.Context, call *rpc.Call) rpc.Result {
	req, err := rpc.Bind[puzzleIDRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}
	if req.PuzzleID == 0 {
		return rpc.Failure(apierrors.Validation("puzzle_id", "puzzle_id is required"))
	}

	stats, err := h.puzzleService.PuzzleStats(ctx, req.PuzzleID)
	if err != nil {
		return respondPuzzleError(err)
	}

	return rpc.Success("Puzzle stats retrieved", dto.PuzzleStatsResponse{
		PuzzleID:        stats.PuzzleID,
		SolvedCount:     stats.SolvedCount,
		LastSolved:      stats.LastSolved,
		Attempts:        stats.Attempts,
		CorrectAttempts: stats.CorrectAttempts,
	})
}

func respondPuzzleError(err error) rpc.Result {
	var verr *puzzle.ValidationError
	switch {
	case errors.As(err, &verr):
		return rpc.Failure(apierrors.Validation(verr.Field, verr.Message))
	case errors.Is(err, services.ErrPuzzleNotFound):
		return rpc.Failure(apierrors.NotFound("Puzzle not found"))
	case errors.Is(err, services.ErrInvalidSort):
		return rpc.Failure(apierrors.Validation("sort_by", err.Error()))
	case errors.Is(err, services.ErrInvalidOrder):
		return rpc.Failure(apierrors.Validation("order", err.Error()))
	default:
		return rpc.Failure(err)
	}
}
