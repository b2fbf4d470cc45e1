package puzzle

import (
	"fmt"

	"github.com/yukikurage/crossword-server/internal/constants"
)

// ValidationError reports a malformed puzzle together with the offending
// payload field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Definition is a validated puzzle ready to be stored.
type Definition struct {
	Grid      *Grid
	Key       *SolutionKey
	Numbering *Numbering
	Clues     ClueList
}

// Build validates everything an author submits for a new puzzle.
func Build(layout, key Matrix, clues ClueSet) (*Definition, error) {
	grid, err := NewGrid(layout)
	if err != nil {
		return nil, invalid("grid", err.Error())
	}
	if grid.Rows() > constants.MaxGridDimension || grid.Cols() > constants.MaxGridDimension {
		return nil, invalid("grid", fmt.Sprintf("must be at most %dx%d", constants.MaxGridDimension, constants.MaxGridDimension))
	}
	if grid.LetterCount() == 0 {
		return nil, invalid("grid", "puzzle has no letter cells")
	}

	numbering := Number(grid)
	if uncovered := numbering.Uncovered(); len(uncovered) > 0 {
		c := uncovered[0]
		return nil, invalid("grid", fmt.Sprintf("letter at row %d column %d is not part of any across or down entry (%d such cells)", c.Row+1, c.Col+1, len(uncovered)))
	}

	solution, err := NewSolutionKey(grid, key)
	if err != nil {
		return nil, err
	}

	list, err := BuildClues(numbering, solution, clues)
	if err != nil {
		return nil, err
	}

	return &Definition{
		Grid:      grid,
		Key:       solution,
		Numbering: numbering,
		Clues:     list,
	}, nil
}
