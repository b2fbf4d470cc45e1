package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BlockMark is the wire representation of a BLOCK cell.
const BlockMark = "#"

// LetterMark is the layout representation of an empty LETTER cell.
const LetterMark = "."

var (
	ErrEmptyGrid         = errors.New("grid has no cells")
	ErrNotRectangular    = errors.New("grid rows must all have the same length")
	ErrDimensionMismatch = errors.New("grid dimensions do not match the puzzle")
)

// Matrix is a rectangular grid of one-character cells as exchanged on the wire.
//
// It decodes from either a list of row strings (["#..#", "...."]) or a list of
// rows of single-character strings ([["#", ".", ...]]), and always encodes as
// the latter.
type Matrix [][]string

// UnmarshalJSON accepts both row-string and cell-array layouts.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("grid must be an array of rows: %w", err)
	}

	rows := make(Matrix, len(raw))
	for i, r := range raw {
		var line string
		if err := json.Unmarshal(r, &line); err == nil {
			cells := make([]string, 0, len(line))
			for _, ch := range line {
				cells = append(cells, string(ch))
			}
			rows[i] = cells
			continue
		}

		var cells []string
		if err := json.Unmarshal(r, &cells); err != nil {
			return fmt.Errorf("row %d must be a string or an array of strings", i)
		}
		rows[i] = cells
	}

	*m = rows
	return nil
}

// Dims returns the row and column counts, failing on empty or ragged input.
func (m Matrix) Dims() (int, int, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return 0, 0, ErrEmptyGrid
	}
	cols := len(m[0])
	for _, row := range m[1:] {
		if len(row) != cols {
			return 0, 0, ErrNotRectangular
		}
	}
	return len(m), cols, nil
}

// Coord identifies a cell. It is encoded as a [row, col] pair.
type Coord struct {
	Row int
	Col int
}

func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}

// CellKind distinguishes BLOCK cells from LETTER cells.
type CellKind uint8

const (
	Block CellKind = iota
	Letter
)

// Grid is the BLOCK/LETTER layout of a puzzle.
type Grid struct {
	cells [][]CellKind
}

// NewGrid builds a grid from a layout matrix. "#" marks a BLOCK cell; every
// other value marks a LETTER cell.
func NewGrid(m Matrix) (*Grid, error) {
	rows, cols, err := m.Dims()
	if err != nil {
		return nil, err
	}

	cells := make([][]CellKind, rows)
	for r := 0; r < rows; r++ {
		cells[r] = make([]CellKind, cols)
		for c := 0; c < cols; c++ {
			if isBlock(m[r][c]) {
				cells[r][c] = Block
			} else {
				cells[r][c] = Letter
			}
		}
	}
	return &Grid{cells: cells}, nil
}

func (g *Grid) Rows() int { return len(g.cells) }

func (g *Grid) Cols() int { return len(g.cells[0]) }

// IsLetter reports whether (r, c) is inside the grid and a LETTER cell.
func (g *Grid) IsLetter(r, c int) bool {
	if r < 0 || c < 0 || r >= g.Rows() || c >= g.Cols() {
		return false
	}
	return g.cells[r][c] == Letter
}

// Toggle flips a cell between BLOCK and LETTER. Any Numbering computed
// before the toggle is stale afterwards.
func (g *Grid) Toggle(r, c int) {
	if r < 0 || c < 0 || r >= g.Rows() || c >= g.Cols() {
		return
	}
	if g.cells[r][c] == Letter {
		g.cells[r][c] = Block
	} else {
		g.cells[r][c] = Letter
	}
}

// LetterCount returns the number of LETTER cells.
func (g *Grid) LetterCount() int {
	n := 0
	for _, row := range g.cells {
		for _, k := range row {
			if k == Letter {
				n++
			}
		}
	}
	return n
}

// Layout renders the grid back to its wire form.
func (g *Grid) Layout() Matrix {
	m := make(Matrix, g.Rows())
	for r, row := range g.cells {
		m[r] = make([]string, len(row))
		for c, k := range row {
			if k == Block {
				m[r][c] = BlockMark
			} else {
				m[r][c] = LetterMark
			}
		}
	}
	return m
}

func isBlock(cell string) bool {
	return strings.TrimSpace(cell) == BlockMark
}
