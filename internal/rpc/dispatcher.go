package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
)

// Call is the per-request state handed through middleware to a handler.
type Call struct {
	Action   string
	Token    string
	HasToken bool
	Payload  json.RawMessage

	// UserID is set by the session middleware.
	UserID uint64
}

// HandlerFunc serves one action.
type HandlerFunc func(ctx context.Context, call *Call) Result

// Middleware wraps a handler.
type Middleware func(next HandlerFunc) HandlerFunc

// Dispatcher maps action names to handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	log      zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

// Register installs a handler. Middleware runs in the order given, the first
// one outermost. Registering an action twice panics.
func (d *Dispatcher) Register(action string, handler HandlerFunc, middleware ...Middleware) {
	if _, exists := d.handlers[action]; exists {
		panic(fmt.Sprintf("rpc: action %q registered twice", action))
	}
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	d.handlers[action] = handler
}

// Actions lists registered action names in sorted order.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleLine decodes one raw request line and dispatches it.
func (d *Dispatcher) HandleLine(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(bytes.TrimSpace(line), &req); err != nil {
		d.log.Debug().Err(err).Msg("Dispatcher: undecodable request")
		return Failure(apierrors.Protocol("")).Response()
	}
	return d.Dispatch(ctx, req)
}

// Dispatch routes a decoded request. It never panics; a panicking handler
// produces an internal error response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()
	result := d.dispatch(ctx, req)

	// Prefer the connection's logger so request lines carry its conn_id.
	log := d.log
	if connLog := zerolog.Ctx(ctx); connLog.GetLevel() != zerolog.Disabled {
		log = *connLog
	}

	event := log.Debug()
	if !result.OK() {
		if cause := result.Cause(); cause != nil {
			event = log.Error().Err(cause)
		} else {
			event = log.Info().Str("code", result.Err().Code)
		}
	}
	event.Str("action", req.Action).Dur("duration", time.Since(start)).Bool("ok", result.OK()).Msg("Dispatcher: request handled")

	return result.Response()
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (result Result) {
	if req.Action == "" {
		return Failure(apierrors.Protocol("Missing action"))
	}
	handler, ok := d.handlers[req.Action]
	if !ok {
		return Failure(apierrors.UnknownAction(req.Action))
	}

	defer func() {
		if r := recover(); r != nil {
			result = Failure(fmt.Errorf("panic in %s: %v\n%s", req.Action, r, debug.Stack()))
		}
	}()

	token, hasToken := req.Token()
	call := &Call{
		Action:   req.Action,
		Token:    token,
		HasToken: hasToken,
		Payload:  req.Payload,
	}
	return handler(ctx, call)
}

// Bind decodes the call's payload into P. A missing or null payload yields
// the zero P.
func Bind[P any](call *Call) (P, error) {
	var payload P
	raw := bytes.TrimSpace(call.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, apierrors.Validation(describeDecodeError(err))
	}
	return payload, nil
}

// describeDecodeError names the offending field when encoding/json can.
func describeDecodeError(err error) (field, message string) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field, fmt.Sprintf("Invalid payload: %s has the wrong type", typeErr.Field)
	}
	return "payload", "Invalid payload: " + err.Error()
}
