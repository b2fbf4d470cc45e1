package puzzle

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SolutionKey holds the expected uppercase letter of every LETTER cell.
// BLOCK cells hold the zero rune.
type SolutionKey struct {
	letters [][]rune
}

// GradeResult is the outcome of comparing a submitted grid to the key.
type GradeResult struct {
	Correct   bool
	Incorrect []Coord
}

// KeyFromMatrix loads a key that has already been validated, e.g. one read
// back from storage.
func KeyFromMatrix(m Matrix) (*SolutionKey, error) {
	rows, cols, err := m.Dims()
	if err != nil {
		return nil, err
	}

	letters := make([][]rune, rows)
	for r := 0; r < rows; r++ {
		letters[r] = make([]rune, cols)
		for c := 0; c < cols; c++ {
			if isBlock(m[r][c]) {
				continue
			}
			letters[r][c] = normalizeLetter(m[r][c])
		}
	}
	return &SolutionKey{letters: letters}, nil
}

// NewSolutionKey validates a key against its grid: identical dimensions,
// "#" exactly at BLOCK cells and a single letter at every LETTER cell.
func NewSolutionKey(g *Grid, m Matrix) (*SolutionKey, error) {
	rows, cols, err := m.Dims()
	if err != nil {
		return nil, invalid("solution_key", err.Error())
	}
	if rows != g.Rows() || cols != g.Cols() {
		return nil, invalid("solution_key", fmt.Sprintf("must be %dx%d to match the grid, got %dx%d", g.Rows(), g.Cols(), rows, cols))
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := strings.TrimSpace(m[r][c])
			if !g.IsLetter(r, c) {
				if cell != BlockMark {
					return nil, invalid("solution_key", fmt.Sprintf("row %d column %d must be %q to match a block cell", r+1, c+1, BlockMark))
				}
				continue
			}
			if utf8.RuneCountInString(cell) != 1 || !unicode.IsLetter([]rune(cell)[0]) {
				return nil, invalid("solution_key", fmt.Sprintf("row %d column %d must hold exactly one letter", r+1, c+1))
			}
		}
	}

	return KeyFromMatrix(m)
}

func (k *SolutionKey) Rows() int { return len(k.letters) }

func (k *SolutionKey) Cols() int { return len(k.letters[0]) }

// Letter returns the expected letter at c, or 0 for a BLOCK cell.
func (k *SolutionKey) Letter(c Coord) rune {
	return k.letters[c.Row][c.Col]
}

// Word spells the expected answer of an entry.
func (k *SolutionKey) Word(e Entry) string {
	var b strings.Builder
	for _, c := range e.Cells() {
		b.WriteRune(k.Letter(c))
	}
	return b.String()
}

// Matrix renders the key in wire form.
func (k *SolutionKey) Matrix() Matrix {
	m := make(Matrix, len(k.letters))
	for r, row := range k.letters {
		m[r] = make([]string, len(row))
		for c, ch := range row {
			if ch == 0 {
				m[r][c] = BlockMark
			} else {
				m[r][c] = string(ch)
			}
		}
	}
	return m
}

// Grade compares a submission cell by cell. BLOCK positions of the key are
// never graded; letters compare case-insensitively. Mismatches are returned
// in row-major order.
func (k *SolutionKey) Grade(submitted Matrix) (GradeResult, error) {
	if len(submitted) != k.Rows() {
		return GradeResult{}, ErrDimensionMismatch
	}
	for _, row := range submitted {
		if len(row) != k.Cols() {
			return GradeResult{}, ErrDimensionMismatch
		}
	}

	incorrect := []Coord{}
	for r, row := range k.letters {
		for c, want := range row {
			if want == 0 {
				continue
			}
			if normalizeLetter(submitted[r][c]) != want {
				incorrect = append(incorrect, Coord{Row: r, Col: c})
			}
		}
	}
	return GradeResult{Correct: len(incorrect) == 0, Incorrect: incorrect}, nil
}

// normalizeLetter returns the single uppercase letter held by a cell, or -1
// when the cell does not hold exactly one rune.
func normalizeLetter(cell string) rune {
	cell = strings.TrimSpace(cell)
	if utf8.RuneCountInString(cell) != 1 {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(cell)
	return unicode.ToUpper(r)
}
