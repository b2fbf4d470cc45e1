package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crossword-server/internal/database"
	"github.com/yukikurage/crossword-server/internal/repository"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/services"
	"github.com/yukikurage/crossword-server/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	dispatcher *rpc.Dispatcher
	sessions   *session.Manager
}

type wireResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), true)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	puzzleRepo := repository.NewPuzzleRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	sessions := session.NewManager(30*time.Minute, session.WithStore(repository.NewSessionRepository(db)))

	dispatcher := rpc.NewDispatcher(zerolog.Nop())
	RegisterRoutes(dispatcher, Services{
		Auth:        services.NewAuthService(userRepo, sessions, &services.BcryptHasher{Cost: bcrypt.MinCost}),
		Puzzles:     services.NewPuzzleService(puzzleRepo, statsRepo),
		Submissions: services.NewSubmissionService(puzzleRepo, repository.NewSubmissionRepository(db)),
		Stats:       services.NewStatsService(userRepo, statsRepo),
		Sessions:    sessions,
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:         db,
		dispatcher: dispatcher,
		sessions:   sessions,
	}
}

// call sends one request line through the dispatcher and decodes the reply
// as a client would see it.
func (env testEnv) call(t *testing.T, action, token string, payload any) wireResponse {
	t.Helper()

	req := map[string]any{"action": action}
	if token != "" {
		req["auth_token"] = token
	}
	if payload != nil {
		req["payload"] = payload
	}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	return env.send(t, line)
}

func (env testEnv) send(t *testing.T, line []byte) wireResponse {
	t.Helper()

	out, err := json.Marshal(env.dispatcher.HandleLine(context.Background(), line))
	require.NoError(t, err)

	var resp wireResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	return resp
}

func (env testEnv) login(t *testing.T, username string) string {
	t.Helper()

	resp := env.call(t, "register", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(t, rpc.StatusSuccess, resp.Status, resp.Message)

	resp = env.call(t, "login", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(t, rpc.StatusSuccess, resp.Status, resp.Message)

	var data struct {
		AuthToken string `json:"auth_token"`
	}
	decodeData(t, resp, &data)
	return data.AuthToken
}

func decodeData(t *testing.T, resp wireResponse, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func requireError(t *testing.T, resp wireResponse, code, field string) {
	t.Helper()

	require.Equal(t, rpc.StatusError, resp.Status)
	var data rpc.ErrorData
	decodeData(t, resp, &data)
	require.Equal(t, code, data.Code, resp.Message)
	if field != "" {
		require.Equal(t, field, data.Field)
	}
}

func samplePuzzlePayload() map[string]any {
	return map[string]any{
		"title":        "Hello World",
		"grid":         []string{"#...#", ".....", ".....", ".....", "#...#"},
		"solution_key": []string{"#HEY#", "WORLD", "HELLO", "BRAVE", "#SAD#"},
		"clues": map[string]any{
			"across": []string{"Informal greeting", "Planet Earth", "Common greeting", "Courageous", "Unhappy"},
			"down":   []string{"Hold up", "Wear away", "Golden", "Shade", "Actor's part"},
		},
		"tags": []string{"Easy", "beginner"},
	}
}
