package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsToMatrix(rows ...string) Matrix {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		for _, ch := range r {
			m[i] = append(m[i], string(ch))
		}
	}
	return m
}

func sampleKeyRows() []string {
	return []string{
		"#HEY#",
		"WORLD",
		"HELLO",
		"BRAVE",
		"#SAD#",
	}
}

func sampleKey(t *testing.T) *SolutionKey {
	t.Helper()
	key, err := NewSolutionKey(sampleGrid(t), rowsToMatrix(sampleKeyRows()...))
	require.NoError(t, err)
	return key
}

func TestGrade_ExactKeyIsCorrect(t *testing.T) {
	key := sampleKey(t)

	result, err := key.Grade(key.Matrix())
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Empty(t, result.Incorrect)
}

func TestGrade_LowercaseIsCorrect(t *testing.T) {
	key := sampleKey(t)
	rows := sampleKeyRows()
	for i := range rows {
		rows[i] = strings.ToLower(rows[i])
	}

	result, err := key.Grade(rowsToMatrix(rows...))
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestGrade_ShiftedRowListsEveryMismatch(t *testing.T) {
	key := sampleKey(t)
	rows := sampleKeyRows()
	rows[1] = "DWORL"

	result, err := key.Grade(rowsToMatrix(rows...))
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, []Coord{{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}}, result.Incorrect)
}

func TestGrade_SingleFlippedLetter(t *testing.T) {
	key := sampleKey(t)
	grid := sampleGrid(t)

	for _, e := range Number(grid).Entries() {
		for _, cell := range e.Cells() {
			submitted := key.Matrix()
			if submitted[cell.Row][cell.Col] == "Q" {
				submitted[cell.Row][cell.Col] = "Z"
			} else {
				submitted[cell.Row][cell.Col] = "Q"
			}

			result, err := key.Grade(submitted)
			require.NoError(t, err)
			assert.False(t, result.Correct)
			assert.Equal(t, []Coord{cell}, result.Incorrect)
		}
	}
}

func TestGrade_BlockCellsAreIgnored(t *testing.T) {
	key := sampleKey(t)
	submitted := key.Matrix()
	submitted[0][0] = "X"
	submitted[4][4] = ""

	result, err := key.Grade(submitted)
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestGrade_DimensionMismatch(t *testing.T) {
	key := sampleKey(t)

	_, err := key.Grade(rowsToMatrix(sampleKeyRows()[:4]...))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	rows := sampleKeyRows()
	rows[2] = "HELL"
	_, err = key.Grade(rowsToMatrix(rows...))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGrade_EmptyCellIsIncorrect(t *testing.T) {
	key := sampleKey(t)
	submitted := key.Matrix()
	submitted[2][2] = ""

	result, err := key.Grade(submitted)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{2, 2}}, result.Incorrect)
}

func TestNewSolutionKey_Validation(t *testing.T) {
	grid := sampleGrid(t)

	tests := []struct {
		name string
		rows []string
	}{
		{"wrong height", []string{"#HEY#", "WORLD"}},
		{"letter on block", []string{"AHEY#", "WORLD", "HELLO", "BRAVE", "#SAD#"}},
		{"block on letter", []string{"#HEY#", "WOR#D", "HELLO", "BRAVE", "#SAD#"}},
		{"not a letter", []string{"#HEY#", "WORLD", "HELLO", "BRAV!", "#SAD#"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSolutionKey(grid, rowsToMatrix(tt.rows...))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "solution_key", verr.Field)
		})
	}
}

func TestSolutionKey_WordAndUppercase(t *testing.T) {
	rows := sampleKeyRows()
	rows[1] = "world"
	key, err := NewSolutionKey(sampleGrid(t), rowsToMatrix(rows...))
	require.NoError(t, err)

	e, ok := Number(sampleGrid(t)).Lookup(4, Across)
	require.True(t, ok)
	assert.Equal(t, "WORLD", key.Word(e))
}
