// Package session issues and checks the bearer tokens that carry a login
// across otherwise stateless RPC connections.
package session

import (
	"container/heap"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/yukikurage/crossword-server/internal/constants"
	"github.com/yukikurage/crossword-server/internal/models"
	"github.com/yukikurage/crossword-server/internal/utils"
)

// Store persists sessions so they survive a restart. The manager's
// in-memory index stays authoritative while the process runs.
type Store interface {
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Session, error)
}

// Info describes a live session.
type Info struct {
	Token     string
	UserID    uint64
	ExpiresAt time.Time
}

// Manager owns the session table. A user holds at most one session: creating
// a new one revokes the previous token. Expiry is absolute and is checked on
// every lookup; the expiry heap lets Sweep drop stale entries without
// scanning the table.
type Manager struct {
	mu      sync.Mutex
	ttl     time.Duration
	store   Store
	now     func() time.Time
	byToken map[string]*entry
	byUser  map[uint64]*entry
	expiry  expiryHeap
}

type Option func(*Manager)

// WithStore enables write-through persistence.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	m := &Manager{
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
		byToken: make(map[string]*entry),
		byUser:  make(map[uint64]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL reports the lifetime given to new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load fills the index from the store. Later sessions of the same user win.
func (m *Manager) Load(ctx context.Context) (int, error) {
	if m.store == nil {
		return 0, nil
	}
	rows, err := m.store.ListActive(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("failed to load sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		if prev, ok := m.byUser[row.UserID]; ok && !row.ExpiresAt.After(prev.expiresAt) {
			continue
		}
		m.install(&entry{token: row.Token, userID: row.UserID, expiresAt: row.ExpiresAt.UTC()})
	}
	return len(m.byToken), nil
}

// Create starts a session for the user and revokes any previous one. The
// store write happens outside the lock so lookups are not held up by it.
func (m *Manager) Create(ctx context.Context, userID uint64) (Info, error) {
	now := m.now()
	token, err := newToken(userID, now)
	if err != nil {
		return Info{}, err
	}
	e := &entry{
		token:     token,
		userID:    userID,
		expiresAt: now.Add(m.ttl),
	}

	if m.store != nil {
		err := m.store.Save(ctx, &models.Session{
			Token:     e.token,
			UserID:    e.userID,
			ExpiresAt: e.expiresAt,
		})
		if err != nil {
			return Info{}, fmt.Errorf("failed to persist session: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.install(e)
	return e.info(), nil
}

// Validate reports whether the token belongs to a live session. It never
// extends the session.
func (m *Manager) Validate(token string) bool {
	_, ok := m.Lookup(token)
	return ok
}

// Resolve returns the user owning a live token.
func (m *Manager) Resolve(token string) (uint64, bool) {
	info, ok := m.Lookup(token)
	return info.UserID, ok
}

// Lookup returns the live session for a token. Every expired entry is
// dropped before the token is looked up.
func (m *Manager) Lookup(token string) (Info, bool) {
	if !WellFormed(token) {
		return Info{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeExpired(m.now())
	e, ok := m.byToken[token]
	if !ok {
		return Info{}, false
	}
	return e.info(), true
}

// Destroy revokes a token. Unknown tokens are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if !WellFormed(token) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byToken[token]; ok {
		m.remove(e)
	}
	if m.store != nil {
		if err := m.store.Delete(ctx, token); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}
	return nil
}

// Sweep drops every expired session and returns how many left the index.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	now := m.now()
	removed := m.purgeExpired(now)
	m.mu.Unlock()

	if m.store != nil {
		if _, err := m.store.DeleteExpired(ctx, now); err != nil {
			return removed, fmt.Errorf("failed to delete expired sessions: %w", err)
		}
	}
	return removed, nil
}

// Count returns the number of indexed sessions. Expired ones linger until the
// next lookup or sweep.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byToken)
}

// purgeExpired pops the expired prefix of the heap. It must be called with
// mu held.
func (m *Manager) purgeExpired(now time.Time) int {
	removed := 0
	for m.expiry.Len() > 0 && !now.Before(m.expiry[0].expiresAt) {
		m.remove(m.expiry[0])
		removed++
	}
	return removed
}

// install must be called with mu held.
func (m *Manager) install(e *entry) {
	if prev, ok := m.byUser[e.userID]; ok {
		m.remove(prev)
	}
	m.byToken[e.token] = e
	m.byUser[e.userID] = e
	heap.Push(&m.expiry, e)
}

// remove must be called with mu held.
func (m *Manager) remove(e *entry) {
	delete(m.byToken, e.token)
	if cur, ok := m.byUser[e.userID]; ok && cur == e {
		delete(m.byUser, e.userID)
	}
	if e.index >= 0 {
		heap.Remove(&m.expiry, e.index)
	}
}

func (e *entry) info() Info {
	return Info{Token: e.token, UserID: e.userID, ExpiresAt: e.expiresAt}
}

// newToken hashes the user, the issue time and a random nonce.
func newToken(userID uint64, now time.Time) (string, error) {
	nonce, err := utils.RandomHex(16)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%s", userID, now.UnixNano(), nonce)))
	return hex.EncodeToString(sum[:]), nil
}

// WellFormed reports whether s looks like a token: 64 lowercase hex digits.
func WellFormed(s string) bool {
	if len(s) != constants.SessionTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
