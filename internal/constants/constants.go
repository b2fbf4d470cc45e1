package constants

import "time"

// Account rules
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
)

// Session rules
const (
	SessionTokenLength = 64
	DefaultSessionTTL  = 30 * time.Minute
)

// Puzzle rules
const (
	MaxGridDimension = 30
	MaxTitleLength   = 100
	MaxTags          = 10
	MaxTagLength     = 30
)

// Statistics rules
const (
	LeaderboardSize           = 10
	LeaderboardMinCorrect     = 3
	LeaderboardMinSubmissions = 3

	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

// Transport defaults
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultMaxConnections  = 256
	DefaultMaxMessageBytes = 1 << 20
)
