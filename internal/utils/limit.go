package utils

// ClampLimit applies a default to a missing (zero) limit and bounds the
// result to [1, max].
func ClampLimit(limit, defaultLimit, max int) int {
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
