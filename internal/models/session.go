package models

import (
	"time"
)

type Session struct {
	Token     string    `gorm:"primarykey;type:varchar(64)" json:"token"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
