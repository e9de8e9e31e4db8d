package auth

import (
	"errors"
	"strings"
)

// Header extraction failures.
var (
	ErrMissingHeader     = errors.New("authorization header missing")
	ErrMalformedHeader   = errors.New("authorization header malformed")
	ErrUnsupportedScheme = errors.New("authorization scheme not supported")
)

// BearerToken pulls the raw token out of an Authorization header value. Every
// protected operation goes through this one code path; nothing else in the
// repo parses the header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || token == "" || strings.ContainsRune(token, ' ') {
		return "", ErrMalformedHeader
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", ErrUnsupportedScheme
	}
	return token, nil
}
