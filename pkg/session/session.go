package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no usable credential is stored
var ErrNoSession = errors.New("no active session")

// Credential is the bearer token identifying the signed-in user
type Credential struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credential is past its expiry. A zero expiry never expires.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Subject returns the "sub" claim of the access token. The signature is not
// checked here; the API verifies the token on every request.
func (c Credential) Subject() (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, claims); err != nil {
		return "", fmt.Errorf("failed to parse access token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read subject: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("access token has no subject")
	}
	return sub, nil
}

// ExpiryFromToken reads the "exp" claim, returning the zero time when absent
func ExpiryFromToken(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Provider gives the polling checks access to the session credential
type Provider interface {
	// Get returns the current credential, or false when there is none or it expired
	Get() (Credential, bool)
	Set(cred Credential) error
	Clear() error
}
