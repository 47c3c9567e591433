package reconcile

import (
	"errors"
	"net/url"
	"strings"
)

// ErrWindowUnreadable means the window's location cannot be read yet. It is
// the normal state while the user is still on the third-party site.
var ErrWindowUnreadable = errors.New("authorization window location is not readable")

// AuthWindow is a handle on the context where the user completes a
// third-party authorization
type AuthWindow interface {
	// Location returns the URL the window has navigated to, or ErrWindowUnreadable
	Location() (string, error)
	Close() error
}

// onOrigin reports whether href points back at the application origin
func onOrigin(href, origin string) bool {
	if href == "" || origin == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, o.Scheme) && strings.EqualFold(u.Host, o.Host)
}
