package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
)

func encode(t *testing.T, resp Response) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func TestDispatcher_RoutesAndWrapsMiddleware(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, call *Call) Result {
				order = append(order, name)
				return next(ctx, call)
			}
		}
	}
	d.Register("echo", func(ctx context.Context, call *Call) Result {
		order = append(order, "handler")
		return Success("Echoed", map[string]any{"token": call.Token, "has_token": call.HasToken})
	}, tag("outer"), tag("inner"))

	resp := d.HandleLine(context.Background(), []byte(`{"action": "echo", "auth_token": "abc"}`+"\n"))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.JSONEq(t, `{"status": "success", "message": "Echoed", "data": {"token": "abc", "has_token": true}}`, encode(t, resp))
}

func TestDispatcher_RegisterTwicePanics(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	h := func(context.Context, *Call) Result { return Success("", nil) }
	d.Register("ping", h)

	assert.Panics(t, func() { d.Register("ping", h) })
}

func TestDispatcher_Errors(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	d.Register("boom", func(context.Context, *Call) Result {
		panic("nil map write")
	})
	d.Register("db", func(context.Context, *Call) Result {
		return Failure(errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	})

	tests := []struct {
		name string
		line string
		code string
	}{
		{"malformed json", `{"action":`, apierrors.ErrCodeProtocol},
		{"not an object", `[1, 2]`, apierrors.ErrCodeProtocol},
		{"missing action", `{"payload": {}}`, apierrors.ErrCodeProtocol},
		{"unknown action", `{"action": "teleport"}`, apierrors.ErrCodeUnknownAction},
		{"panicking handler", `{"action": "boom"}`, apierrors.ErrCodeInternalError},
		{"storage failure", `{"action": "db"}`, apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := d.HandleLine(context.Background(), []byte(tt.line))
			assert.Equal(t, StatusError, resp.Status)
			data, ok := resp.Data.(ErrorData)
			require.True(t, ok)
			assert.Equal(t, tt.code, data.Code)
			assert.NotContains(t, resp.Message, "connection refused")
			assert.NotContains(t, resp.Message, "nil map")
		})
	}
}

func TestRequest_TokenPresence(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"action": "x", "auth_token": null}`), &req))
	_, ok := req.Token()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"action": "x", "auth_token": ""}`), &req))
	_, ok = req.Token()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"action": "x", "auth_token": "t0k"}`), &req))
	token, ok := req.Token()
	assert.True(t, ok)
	assert.Equal(t, "t0k", token)
}

func TestBind(t *testing.T) {
	type payload struct {
		PuzzleID uint64 `json:"puzzle_id"`
		Order    string `json:"order"`
	}

	for _, raw := range []string{"", "null", "  "} {
		p, err := Bind[payload](&Call{Payload: json.RawMessage(raw)})
		require.NoError(t, err)
		assert.Zero(t, p)
	}

	p, err := Bind[payload](&Call{Payload: json.RawMessage(`{"puzzle_id": 7, "order": "asc"}`)})
	require.NoError(t, err)
	assert.Equal(t, payload{PuzzleID: 7, Order: "asc"}, p)

	_, err = Bind[payload](&Call{Payload: json.RawMessage(`{"puzzle_id": "seven"}`)})
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, apiErr.Code)
	assert.Equal(t, "puzzle_id", apiErr.Field)

	_, err = Bind[payload](&Call{Payload: json.RawMessage(`"just a string"`)})
	apiErr, ok = apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, apiErr.Code)
}

func TestResult_Response(t *testing.T) {
	assert.JSONEq(t, `{"status": "success", "message": "Logged out", "data": {}}`, encode(t, Success("Logged out", nil).Response()))

	failed := Failure(apierrors.Validation("grid", "grid is required"))
	assert.False(t, failed.OK())
	assert.Nil(t, failed.Cause())
	assert.JSONEq(t, `{"status": "error", "message": "grid is required", "data": {"code": "INVALID_INPUT", "field": "grid"}}`, encode(t, failed.Response()))

	cause := errors.New("disk full")
	internal := Failure(cause)
	assert.Equal(t, cause, internal.Cause())
	assert.JSONEq(t, `{"status": "error", "message": "Internal server error", "data": {"code": "INTERNAL_ERROR"}}`, encode(t, internal.Response()))
}
