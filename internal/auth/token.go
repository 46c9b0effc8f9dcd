package auth

import (
	"crypto/subtle"
	"strconv"
	"strings"
)

// ParseToken splits a demo bearer token of the form "<secret>:<user_id>".
// This is not a credential scheme: anyone who knows the shared secret can act as any user.
func ParseToken(token, secret string) (userID string, err error) {
	if token == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(parts[0]), []byte(secret)) != 1 {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// parseUserID returns false when the id cannot name any row.
func parseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
