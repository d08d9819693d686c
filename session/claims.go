package session

import (
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// User is the identity projection shown in the dashboard chrome. It is
// decoded from the access token's claims without signature verification:
// a display convenience only, never an authorization decision. The server
// enforces authorization on every request.
type User struct {
	Name  string
	Email string
}

type accessClaims struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	jwtlib.RegisteredClaims
}

// DecodeUser extracts the user projection from a raw access token. It is
// total: malformed or empty input yields nil, never a panic or an error,
// since it runs on every session read.
func DecodeUser(rawToken string) *User {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}

	claims := &accessClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil
	}

	return &User{
		Name:  strings.TrimSpace(claims.FirstName + " " + claims.LastName),
		Email: claims.Email,
	}
}
