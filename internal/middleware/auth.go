package middleware

import (
	"context"

	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/rpc"
)

// SessionResolver maps a token to the user of a live session.
type SessionResolver interface {
	Resolve(token string) (uint64, bool)
}

// RequireSession rejects calls without a live session. A missing token and
// a dead one get different errors so clients know when to log in again.
func RequireSession(sessions SessionResolver) rpc.Middleware {
	return func(next rpc.HandlerFunc) rpc.HandlerFunc {
		return func(ctx context.Context, call *rpc.Call) rpc.Result {
			if !call.HasToken {
				return rpc.Failure(apierrors.ErrAuthRequired)
			}

			userID, ok := sessions.Resolve(call.Token)
			if !ok {
				return rpc.Failure(apierrors.ErrSessionExpired)
			}

			// Store user ID on the call for easy access in handlers
			call.UserID = userID
			return next(ctx, call)
		}
	}
}

// GetUserID retrieves the authenticated user of a call
func GetUserID(call *rpc.Call) (uint64, bool) {
	if call.UserID == 0 {
		return 0, false
	}
	return call.UserID, true
}
