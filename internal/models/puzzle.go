package models

import (
	"time"

	"github.com/yukikurage/crossword-server/internal/puzzle"
	"gorm.io/datatypes"
)

type Puzzle struct {
	ID          uint64                              `gorm:"primarykey" json:"id"`
	Title       string                              `gorm:"type:varchar(100);not null;index" json:"title"`
	Grid        datatypes.JSONType[puzzle.Matrix]   `gorm:"not null" json:"grid"`
	SolutionKey datatypes.JSONType[puzzle.Matrix]   `gorm:"not null" json:"solution_key"`
	Clues       datatypes.JSONType[puzzle.ClueList] `gorm:"not null" json:"clues"`
	AuthorID    *uint64                             `gorm:"index" json:"author_id"`
	SolvedCount int64                               `gorm:"not null;default:0;index" json:"solved_count"`
	LastSolved  *time.Time                          `json:"last_solved"`
	CreatedAt   time.Time                           `gorm:"index" json:"created_at"`

	// Relations
	Author *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags   []PuzzleTag `gorm:"foreignKey:PuzzleID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// TagNames returns the puzzle's tags in stored order.
func (p *Puzzle) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Tag)
	}
	return names
}

type PuzzleTag struct {
	PuzzleID uint64 `gorm:"primarykey;autoIncrement:false" json:"puzzle_id"`
	Tag      string `gorm:"primarykey;type:varchar(30);index" json:"tag"`
}
