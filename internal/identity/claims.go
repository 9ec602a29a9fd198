// Package identity resolves the user a request acts for.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

// ReadUserID extracts the userId claim from the payload segment of a
// header.payload.signature token. The signature is NOT checked; the caller
// must only hand over tokens whose authenticity was established upstream.
//
// Every malformation yields the same InvalidToken error.
func ReadUserID(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", errors.InvalidToken()
	}

	payload, err := base64.RawURLEncoding.Strict().DecodeString(parts[1])
	if err != nil {
		return "", errors.InvalidToken()
	}

	return userIDFromPayload(payload)
}

func userIDFromPayload(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", errors.InvalidToken()
	}

	var claims map[string]json.RawMessage
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", errors.InvalidToken()
	}

	raw, ok := claims["userId"]
	if !ok {
		return "", errors.InvalidToken()
	}

	var userID string
	if err := json.Unmarshal(raw, &userID); err != nil || userID == "" {
		return "", errors.InvalidToken()
	}

	return userID, nil
}
