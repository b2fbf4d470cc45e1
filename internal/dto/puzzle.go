package dto

import (
	"time"

	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/puzzle"
)

// PuzzleListItemDTO represents a puzzle in list responses (no grid or key)
type PuzzleListItemDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Date        time.Time  `json:"date"`
	Tags        []string   `json:"tags"`
	SolvedCount int64      `json:"solved_count"`
	LastSolved  *time.Time `json:"last_solved"`
	Author      *string    `json:"author"`
}

// PuzzleDTO represents a full puzzle
type PuzzleDTO struct {
	PuzzleListItemDTO
	AuthorID    *uint64         `json:"author_id"`
	Grid        puzzle.Matrix   `json:"grid"`
	Clues       puzzle.ClueList `json:"clues"`
	SolutionKey puzzle.Matrix   `json:"solution_key"`
	// Numbers holds the clue number printed in each cell, 0 for none.
	Numbers     [][]int         `json:"numbers"`
}

// PuzzleListResponse wraps a puzzle listing
type PuzzleListResponse struct {
	Puzzles []PuzzleListItemDTO `json:"puzzles"`
}

// PuzzleResponse wraps a single puzzle
type PuzzleResponse struct {
	Puzzle PuzzleDTO `json:"puzzle"`
}

// CreatePuzzleResponse is the data of a successful create_puzzle
type CreatePuzzleResponse struct {
	PuzzleID uint64 `json:"puzzle_id"`
}

// ToPuzzleListItemDTO converts a puzzle model to its list form
func ToPuzzleListItemDTO(p models.Puzzle) PuzzleListItemDTO {
	item := PuzzleListItemDTO{
		ID:          p.ID,
		Title:       p.Title,
		Date:        p.CreatedAt,
		Tags:        p.TagNames(),
		SolvedCount: p.SolvedCount,
		LastSolved:  p.LastSolved,
	}
	if p.Author != nil {
		name := p.Author.Username
		item.Author = &name
	}
	return item
}

// ToPuzzleListResponse converts a slice of puzzles
func ToPuzzleListResponse(puzzles []models.Puzzle) PuzzleListResponse {
	items := make([]PuzzleListItemDTO, 0, len(puzzles))
	for _, p := range puzzles {
		items = append(items, ToPuzzleListItemDTO(p))
	}
	return PuzzleListResponse{Puzzles: items}
}

// ToPuzzleDTO converts a puzzle model including grid, clues and key
func ToPuzzleDTO(p models.Puzzle) PuzzleDTO {
	return PuzzleDTO{
		PuzzleListItemDTO: ToPuzzleListItemDTO(p),
		AuthorID:          p.AuthorID,
		Grid:              p.Grid.Data(),
		Clues:             p.Clues.Data(),
		SolutionKey:       p.SolutionKey.Data(),
		Numbers:           cellNumbers(p.Grid.Data()),
	}
}

func cellNumbers(layout puzzle.Matrix) [][]int {
	g, err := puzzle.NewGrid(layout)
	if err != nil {
		return nil
	}
	n := puzzle.Number(g)

	numbers := make([][]int, g.Rows())
	for r := range numbers {
		numbers[r] = make([]int, g.Cols())
		for c := range numbers[r] {
			numbers[r][c] = n.NumberAt(puzzle.Coord{Row: r, Col: c})
		}
	}
	return numbers
}
