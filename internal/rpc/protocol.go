// Package rpc implements the request/response envelope of the crossword
// protocol and the registry that routes actions to handlers.
package rpc

import (
	"encoding/json"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is one decoded protocol line.
type Request struct {
	Action    string          `json:"action"`
	AuthToken *string         `json:"auth_token"`
	Payload   json.RawMessage `json:"payload"`
}

// Token returns the supplied auth token; an absent, null or empty token
// reports false.
func (r *Request) Token() (string, bool) {
	if r.AuthToken == nil || *r.AuthToken == "" {
		return "", false
	}
	return *r.AuthToken, true
}

// Response is written back as one line.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorData is the data object of an error response.
type ErrorData struct {
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}
