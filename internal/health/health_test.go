package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCount int

func (f fixedCount) Count() int             { return int(f) }
func (f fixedCount) ActiveConnections() int { return int(f) }

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, r http.Handler) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth_OK(t *testing.T) {
	r := NewRouter(Deps{Sessions: fixedCount(3), Connections: fixedCount(1), DB: stubPinger{}}, zerolog.Nop())

	code, body := get(t, r)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["active_sessions"])
	assert.Equal(t, float64(1), body["open_connections"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	r := NewRouter(Deps{Sessions: fixedCount(0), DB: stubPinger{err: errors.New("connection refused")}}, zerolog.Nop())

	code, body := get(t, r)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	assert.NotContains(t, body, "open_connections")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", NewRouter(Deps{}, zerolog.Nop()), zerolog.Nop()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("health server did not stop")
	}
}
