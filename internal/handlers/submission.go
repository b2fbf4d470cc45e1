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

// SubmissionHandler grades solutions.
type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// SubmitSolution handles submit_solution for the authenticated user.
func (h *SubmissionHandler) SubmitSolution(ctx context.Context, call *rpc.Call) rpc.Result {
	type SubmitRequest struct {
		PuzzleID  uint64        `json:"puzzle_id"`
		Grid      puzzle.Matrix `json:"grid"`
		TimeTaken *float64      `json:"time_taken"`
	}

	userID, ok := middleware.GetUserID(call)
	if !ok {
		return rpc.Failure(apierrors.ErrAuthRequired)
	}

	req, err := rpc.Bind[SubmitRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}
	switch {
	case req.PuzzleID == 0:
		return rpc.Failure(apierrors.Validation("puzzle_id", "puzzle_id is required"))
	case len(req.Grid) == 0:
		return rpc.Failure(apierrors.Validation("grid", "grid is required"))
	case req.TimeTaken == nil:
		return rpc.Failure(apierrors.Validation("time_taken", "time_taken is required"))
	}

	result, err := h.submissionService.Submit(ctx, services.SubmitInput{
		UserID:    userID,
		PuzzleID:  req.PuzzleID,
		Grid:      req.Grid,
		TimeTaken: *req.TimeTaken,
	})
	if err != nil {
		return respondSubmissionError(err)
	}

	incorrect := result.IncorrectCells
	if incorrect == nil {
		incorrect = []puzzle.Coord{}
	}

	message := "Some cells are incorrect"
	if result.Correct {
		message = "Congratulations! Puzzle solved"
	}
	return rpc.Success("Solution submitted", dto.SubmitResponse{
		SubmissionID:   result.SubmissionID,
		IsCorrect:      result.Correct,
		Message:        message,
		IncorrectCells: incorrect,
	})
}

func respondSubmissionError(err error) rpc.Result {
	switch {
	case errors.Is(err, services.ErrPuzzleNotFound):
		return rpc.Failure(apierrors.NotFound("Puzzle not found"))
	case errors.Is(err, services.ErrGridMismatch):
		return rpc.Failure(apierrors.Validation("grid", "Grid dimensions do not match the puzzle"))
	case errors.Is(err, services.ErrInvalidTimeTaken):
		return rpc.Failure(apierrors.Validation("time_taken", "time_taken must be a non-negative number"))
	default:
		return rpc.Failure(err)
	}
}
