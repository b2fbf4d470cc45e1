package puzzle

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ClueInput is one clue as submitted by an author. On the wire it is either
// a bare string (the clue text, matched to entries in numbering order) or an
// object carrying an explicit number and an optional answer.
type ClueInput struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

func (c *ClueInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = ClueInput{Text: text}
		return nil
	}

	type plain ClueInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("clue must be a string or an object: %w", err)
	}
	*c = ClueInput(p)
	return nil
}

// ClueSet groups author clues by direction.
type ClueSet struct {
	Across []ClueInput `json:"across"`
	Down   []ClueInput `json:"down"`
}

// Clue is a stored clue. Its position and length come from the numbering,
// never from the author.
type Clue struct {
	Number    int       `json:"number"`
	Direction Direction `json:"direction"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Length    int       `json:"length"`
	Text      string    `json:"text"`
}

// ClueList is the canonical clue set of a puzzle.
type ClueList struct {
	Across []Clue `json:"across"`
	Down   []Clue `json:"down"`
}

// BuildClues matches author clues to the numbered entries of the grid.
// Every entry needs exactly one non-empty clue; an optional answer must fit
// the entry and agree with the key.
func BuildClues(n *Numbering, key *SolutionKey, in ClueSet) (ClueList, error) {
	across, err := buildDirection(n, key, Across, in.Across)
	if err != nil {
		return ClueList{}, err
	}
	down, err := buildDirection(n, key, Down, in.Down)
	if err != nil {
		return ClueList{}, err
	}
	return ClueList{Across: across, Down: down}, nil
}

func buildDirection(n *Numbering, key *SolutionKey, dir Direction, inputs []ClueInput) ([]Clue, error) {
	field := "clues." + string(dir)
	entries := n.EntriesFor(dir)
	if len(inputs) != len(entries) {
		return nil, invalid(field, fmt.Sprintf("expected %d %s clues, got %d", len(entries), dir, len(inputs)))
	}

	numbered := 0
	for _, in := range inputs {
		if in.Number > 0 {
			numbered++
		}
	}

	var assigned []ClueInput
	switch numbered {
	case 0:
		assigned = inputs
	case len(inputs):
		byNumber := make(map[int]ClueInput, len(inputs))
		for _, in := range inputs {
			if _, ok := n.Lookup(in.Number, dir); !ok {
				return nil, invalid(field, fmt.Sprintf("there is no %d %s entry", in.Number, dir))
			}
			if _, dup := byNumber[in.Number]; dup {
				return nil, invalid(field, fmt.Sprintf("clue %d %s is given twice", in.Number, dir))
			}
			byNumber[in.Number] = in
		}
		assigned = make([]ClueInput, len(entries))
		for i, e := range entries {
			assigned[i] = byNumber[e.Number]
		}
	default:
		return nil, invalid(field, "either number every clue or none of them")
	}

	clues := make([]Clue, len(entries))
	for i, e := range entries {
		in := assigned[i]
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, invalid(field, fmt.Sprintf("clue %d %s has no text", e.Number, dir))
		}
		if answer := strings.TrimSpace(in.Answer); answer != "" {
			if utf8.RuneCountInString(answer) != e.Length {
				return nil, invalid(field, fmt.Sprintf("answer for %d %s must be %d letters, got %d", e.Number, dir, e.Length, utf8.RuneCountInString(answer)))
			}
			if strings.ToUpper(answer) != key.Word(e) {
				return nil, invalid(field, fmt.Sprintf("answer for %d %s does not match the solution key", e.Number, dir))
			}
		}
		clues[i] = Clue{
			Number:    e.Number,
			Direction: dir,
			Row:       e.Start.Row,
			Col:       e.Start.Col,
			Length:    e.Length,
			Text:      text,
		}
	}
	return clues, nil
}
