package puzzle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	m := make(Matrix, len(rows))
	for i, r := range rows {
		for _, ch := range r {
			m[i] = append(m[i], string(ch))
		}
	}
	g, err := NewGrid(m)
	require.NoError(t, err)
	return g
}

func sampleGrid(t *testing.T) *Grid {
	return mustGrid(t,
		"#...#",
		".....",
		".....",
		".....",
		"#...#",
	)
}

func TestNumber_SampleGrid(t *testing.T) {
	n := Number(sampleGrid(t))

	type want struct {
		number int
		dir    Direction
		row    int
		col    int
		length int
	}
	expected := []want{
		{1, Across, 0, 1, 3},
		{1, Down, 0, 1, 5},
		{2, Down, 0, 2, 5},
		{3, Down, 0, 3, 5},
		{4, Across, 1, 0, 5},
		{4, Down, 1, 0, 3},
		{5, Down, 1, 4, 3},
		{6, Across, 2, 0, 5},
		{7, Across, 3, 0, 5},
		{8, Across, 4, 1, 3},
	}

	entries := n.Entries()
	require.Len(t, entries, len(expected))
	for i, w := range expected {
		e := entries[i]
		assert.Equal(t, w.number, e.Number, "entry %d", i)
		assert.Equal(t, w.dir, e.Direction, "entry %d", i)
		assert.Equal(t, Coord{Row: w.row, Col: w.col}, e.Start, "entry %d", i)
		assert.Equal(t, w.length, e.Length, "entry %d", i)
	}

	assert.Empty(t, n.Uncovered())
	assert.Equal(t, 1, n.NumberAt(Coord{Row: 0, Col: 1}))
	assert.Equal(t, 0, n.NumberAt(Coord{Row: 1, Col: 1}))
}

func TestNumber_Idempotent(t *testing.T) {
	grids := []*Grid{
		sampleGrid(t),
		mustGrid(t, "....#", ".#...", "...#.", ".....", "#...."),
		mustGrid(t, "#####"),
		mustGrid(t, ".#.", "...", ".#."),
	}

	for _, g := range grids {
		first := Number(g)
		second := Number(g)
		assert.Equal(t, first.Entries(), second.Entries())
		assert.Equal(t, first.Uncovered(), second.Uncovered())
	}
}

func TestNumber_SingleLetterRunsAreNotEntries(t *testing.T) {
	g := mustGrid(t,
		".#.",
		"#..",
	)
	n := Number(g)

	// (0,0) is isolated; (0,2)/(1,2) form a down word; (1,1)/(1,2) an across word.
	assert.Equal(t, []Coord{{Row: 0, Col: 0}}, n.Uncovered())
	for _, e := range n.Entries() {
		assert.GreaterOrEqual(t, e.Length, 2)
	}

	length, ok := n.WordLength(1, Down)
	require.True(t, ok)
	assert.Equal(t, 2, length)
	length, ok = n.WordLength(2, Across)
	require.True(t, ok)
	assert.Equal(t, 2, length)
}

func TestNumber_AllBlockGridHasNoEntries(t *testing.T) {
	n := Number(mustGrid(t, "##", "##"))
	assert.Empty(t, n.Entries())
	assert.Empty(t, n.Uncovered())
}

func TestNumbering_WordLengthAndContains(t *testing.T) {
	n := Number(sampleGrid(t))

	length, ok := n.WordLength(4, Across)
	require.True(t, ok)
	assert.Equal(t, 5, length)

	_, ok = n.WordLength(2, Across)
	assert.False(t, ok)

	assert.True(t, n.Contains(1, 3, 4, Across))
	assert.False(t, n.Contains(2, 3, 4, Across))
	assert.True(t, n.Contains(3, 2, 2, Down))
	assert.True(t, n.Contains(4, 2, 2, Down))
	assert.False(t, n.Contains(0, 1, 2, Down))
	assert.False(t, n.Contains(0, 0, 99, Across))
}

func TestNumbering_ToggleRequiresRenumbering(t *testing.T) {
	g := sampleGrid(t)
	before := Number(g)

	g.Toggle(0, 0)
	after := Number(g)

	// (0,0) now starts 1-across and 1-down, shifting every later number.
	e, ok := after.Lookup(1, Across)
	require.True(t, ok)
	assert.Equal(t, Coord{Row: 0, Col: 0}, e.Start)
	assert.Equal(t, 4, e.Length)
	assert.NotEqual(t, before.Entries(), after.Entries())

	g.Toggle(0, 0)
	assert.Equal(t, before.Entries(), Number(g).Entries())
}

func TestMatrix_UnmarshalBothLayouts(t *testing.T) {
	var fromStrings, fromCells Matrix
	require.NoError(t, json.Unmarshal([]byte(`["#..", "..."]`), &fromStrings))
	require.NoError(t, json.Unmarshal([]byte(`[["#",".","."],[".",".","."]]`), &fromCells))
	assert.Equal(t, fromCells, fromStrings)

	var bad Matrix
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &bad))
}

func TestNewGrid_RejectsRaggedAndEmpty(t *testing.T) {
	_, err := NewGrid(Matrix{{".", "."}, {"."}})
	assert.ErrorIs(t, err, ErrNotRectangular)

	_, err = NewGrid(Matrix{})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestCoord_JSONPair(t *testing.T) {
	data, err := json.Marshal([]Coord{{Row: 1, Col: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,4]]`, string(data))

	var back []Coord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Coord{{Row: 1, Col: 4}}, back)
}
