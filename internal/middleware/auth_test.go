package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/rpc"
)

type staticResolver map[string]uint64

func (s staticResolver) Resolve(token string) (uint64, bool) {
	id, ok := s[token]
	return id, ok
}

func TestRequireSession(t *testing.T) {
	var seen uint64
	handler := RequireSession(staticResolver{"good": 9})(func(_ context.Context, call *rpc.Call) rpc.Result {
		seen, _ = GetUserID(call)
		return rpc.Success("ok", nil)
	})

	result := handler(context.Background(), &rpc.Call{})
	assert.Equal(t, apierrors.ErrCodeAuthRequired, result.Err().Code)

	result = handler(context.Background(), &rpc.Call{Token: "stale", HasToken: true})
	assert.Equal(t, apierrors.ErrCodeSessionExpired, result.Err().Code)
	assert.Equal(t, "Invalid or expired session", result.Err().Message)

	result = handler(context.Background(), &rpc.Call{Token: "good", HasToken: true})
	assert.True(t, result.OK())
	assert.Equal(t, uint64(9), seen)
}
