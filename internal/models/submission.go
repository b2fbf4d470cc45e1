package models

import (
	"time"

	"github.com/yukikurage/crossword-server/internal/puzzle"
	"gorm.io/datatypes"
)

type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Submission is one graded attempt. Rows are never updated.
type Submission struct {
	ID             uint64                             `gorm:"primarykey" json:"id"`
	UserID         uint64                             `gorm:"not null;index" json:"user_id"`
	PuzzleID       uint64                             `gorm:"not null;index" json:"puzzle_id"`
	Grid           datatypes.JSONType[puzzle.Matrix]  `gorm:"not null" json:"grid"`
	TimeTaken      float64                            `gorm:"not null" json:"time_taken"`
	Outcome        Outcome                            `gorm:"type:varchar(10);not null;index" json:"outcome"`
	IncorrectCells datatypes.JSONType[[]puzzle.Coord] `gorm:"not null" json:"incorrect_cells"`
	SubmittedAt    time.Time                          `gorm:"not null;index" json:"submitted_at"`
}
