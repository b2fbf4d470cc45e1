package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/crossword-server/internal/constants"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/session"
	"gorm.io/gorm"
)

var (
	ErrInvalidUsername      = errors.New("username must be 3-20 letters or digits")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

var usernamePattern = regexp.MustCompile(fmt.Sprintf("^[a-zA-Z0-9]{%d,%d}$", constants.MinUsernameLength, constants.MaxUsernameLength))

// SessionIssuer creates and revokes login sessions.
type SessionIssuer interface {
	Create(ctx context.Context, userID uint64) (session.Info, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	sessions SessionIssuer
	hasher   PasswordHasher
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessions SessionIssuer, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		hasher:   hasher,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new user with empty statistics.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.CreateWithStats(ctx, user); err != nil {
		switch {
		// Lost a race with a concurrent registration of the same name
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrCreateUser), errors.Is(err, repository.ErrCreateUserStats):
			return nil, ErrFailedToCreateUser
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is an authenticated user and its new session.
type LoginResult struct {
	User    *models.User
	Session session.Info
}

// Login verifies credentials and opens a session, revoking any previous one.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	info, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		log.Warn().Err(err).Uint64("user_id", user.ID).Msg("AuthService: failed to record last login")
	}

	return &LoginResult{User: user, Session: info}, nil
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
