package puzzle

// Direction is the orientation of an entry.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Entry is one numbered word slot in the grid.
type Entry struct {
	Number    int       `json:"number"`
	Direction Direction `json:"direction"`
	Start     Coord     `json:"start"`
	Length    int       `json:"length"`
}

// Cells returns the coordinates covered by the entry, from its start.
func (e Entry) Cells() []Coord {
	cells := make([]Coord, e.Length)
	for i := range cells {
		if e.Direction == Across {
			cells[i] = Coord{Row: e.Start.Row, Col: e.Start.Col + i}
		} else {
			cells[i] = Coord{Row: e.Start.Row + i, Col: e.Start.Col}
		}
	}
	return cells
}

type entryKey struct {
	number    int
	direction Direction
}

// Numbering is the canonical clue numbering of a grid at one point in time.
// It is a pure function of the grid: recompute it after any Toggle.
type Numbering struct {
	entries   []Entry
	index     map[entryKey]int
	numbers   map[Coord]int
	uncovered []Coord
}

// Number scans the grid row-major and assigns clue numbers.
//
// A LETTER cell starts an across entry when the cell to its left is BLOCK or
// off-grid and the cell to its right is LETTER; down entries are symmetric.
// A cell that starts both shares one number.
func Number(g *Grid) *Numbering {
	n := &Numbering{
		index:   make(map[entryKey]int),
		numbers: make(map[Coord]int),
	}
	covered := make(map[Coord]bool)

	next := 1
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.IsLetter(r, c) {
				continue
			}

			startsAcross := (c == 0 || !g.IsLetter(r, c-1)) && g.IsLetter(r, c+1)
			startsDown := (r == 0 || !g.IsLetter(r-1, c)) && g.IsLetter(r+1, c)
			if !startsAcross && !startsDown {
				continue
			}

			start := Coord{Row: r, Col: c}
			n.numbers[start] = next
			if startsAcross {
				n.add(Entry{Number: next, Direction: Across, Start: start, Length: runLength(g, r, c, 0, 1)}, covered)
			}
			if startsDown {
				n.add(Entry{Number: next, Direction: Down, Start: start, Length: runLength(g, r, c, 1, 0)}, covered)
			}
			next++
		}
	}

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.IsLetter(r, c) && !covered[Coord{Row: r, Col: c}] {
				n.uncovered = append(n.uncovered, Coord{Row: r, Col: c})
			}
		}
	}
	return n
}

func (n *Numbering) add(e Entry, covered map[Coord]bool) {
	n.index[entryKey{e.Number, e.Direction}] = len(n.entries)
	n.entries = append(n.entries, e)
	for _, cell := range e.Cells() {
		covered[cell] = true
	}
}

func runLength(g *Grid, r, c, dr, dc int) int {
	length := 0
	for g.IsLetter(r, c) {
		length++
		r += dr
		c += dc
	}
	return length
}

// Entries returns every entry in numbering order.
func (n *Numbering) Entries() []Entry {
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// EntriesFor returns the entries of one direction in numbering order.
func (n *Numbering) EntriesFor(dir Direction) []Entry {
	var out []Entry
	for _, e := range n.entries {
		if e.Direction == dir {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds the entry for a clue number and direction.
func (n *Numbering) Lookup(number int, dir Direction) (Entry, bool) {
	i, ok := n.index[entryKey{number, dir}]
	if !ok {
		return Entry{}, false
	}
	return n.entries[i], true
}

// WordLength returns the answer length of the given entry.
func (n *Numbering) WordLength(number int, dir Direction) (int, bool) {
	e, ok := n.Lookup(number, dir)
	if !ok {
		return 0, false
	}
	return e.Length, true
}

// Contains reports whether (row, col) belongs to the given entry.
func (n *Numbering) Contains(row, col, number int, dir Direction) bool {
	e, ok := n.Lookup(number, dir)
	if !ok {
		return false
	}
	if dir == Across {
		return row == e.Start.Row && col >= e.Start.Col && col < e.Start.Col+e.Length
	}
	return col == e.Start.Col && row >= e.Start.Row && row < e.Start.Row+e.Length
}

// NumberAt returns the clue number printed in a cell, or 0.
func (n *Numbering) NumberAt(c Coord) int {
	return n.numbers[c]
}

// Uncovered lists LETTER cells that belong to no entry, in row-major order.
func (n *Numbering) Uncovered() []Coord {
	out := make([]Coord, len(n.uncovered))
	copy(out, n.uncovered)
	return out
}
