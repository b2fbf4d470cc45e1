package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/crossword-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateUserStats is returned when creating the statistics row fails inside the signup transaction.
	ErrCreateUserStats = errors.New("user repository: create user stats failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithStats creates a user and the matching statistics row atomically.
func (r *GormUserRepository) CreateWithStats(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		stats := &models.UserStats{UserID: user.ID}
		if err := tx.Create(stats).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUserStats, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin sets last_login, creating the statistics row for users
// that predate it.
func (r *GormUserRepository) TouchLastLogin(ctx context.Context, userID uint64, at time.Time) error {
	stats := models.UserStats{UserID: userID, LastLogin: &at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_login"}),
	}).Create(&stats).Error
}

// GetStats returns the user's aggregates, zero-valued when no row exists yet.
func (r *GormUserRepository) GetStats(ctx context.Context, userID uint64) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
