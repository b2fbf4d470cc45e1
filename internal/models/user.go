package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Stats       *UserStats   `gorm:"foreignKey:UserID" json:"stats,omitempty"`
	Puzzles     []Puzzle     `gorm:"foreignKey:AuthorID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:UserID" json:"-"`
}

// UserStats holds the per-user aggregates maintained on every correct
// submission.
type UserStats struct {
	UserID        uint64     `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	PuzzlesSolved int64      `gorm:"not null;default:0" json:"puzzles_solved"`
	AvgTime       float64    `gorm:"not null;default:0" json:"avg_time"`
	LastLogin     *time.Time `json:"last_login"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
