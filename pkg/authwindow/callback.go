// Package authwindow stands in for the browser window of a third-party
// authorization flow: it opens the flow in the system browser and listens on
// the application origin for the redirect back.
package authwindow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"swapwizard/pkg/reconcile"
)

const shutdownTimeout = 5 * time.Second

const returnPage = `<!doctype html>
<html><body style="font-family: sans-serif">
<p>Authorization received. You can close this window and return to the terminal.</p>
</body></html>`

// Opener shows a URL to the user
type Opener func(link string) error

// CallbackWindow is a reconcile.AuthWindow backed by a loopback HTTP listener
type CallbackWindow struct {
	origin   *url.URL
	server   *http.Server
	listener net.Listener
	logger   logrus.FieldLogger

	mu       sync.Mutex
	location string
	closed   bool
}

var _ reconcile.AuthWindow = (*CallbackWindow)(nil)

// Listen binds the callback listener to the host and port of origin. A zero
// port picks a free one; Origin reports the bound address.
func Listen(origin string, logger logrus.FieldLogger) (*CallbackWindow, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid app origin: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("app origin must be a plain http loopback address, got %q", origin)
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	w := &CallbackWindow{
		origin:   &url.URL{Scheme: u.Scheme, Host: listener.Addr().String()},
		listener: listener,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(reconcile.RedirectPath, w.handleReturn)

	w.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := w.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("authorization callback listener stopped")
		}
	}()

	return w, nil
}

// Open sends the user to link. The callback listener must already be running.
func (w *CallbackWindow) Open(link string, opener Opener) error {
	if opener == nil {
		opener = OpenBrowser
	}
	if err := opener(link); err != nil {
		return fmt.Errorf("failed to open authorization page: %w", err)
	}
	return nil
}

// Origin is the application origin the flow must redirect back to
func (w *CallbackWindow) Origin() string {
	return w.origin.String()
}

func (w *CallbackWindow) handleReturn(rw http.ResponseWriter, r *http.Request) {
	returned := *w.origin
	returned.Path = r.URL.Path
	returned.RawQuery = r.URL.RawQuery

	w.mu.Lock()
	w.location = returned.String()
	w.mu.Unlock()

	w.logger.WithField("path", r.URL.Path).Debug("authorization flow returned")

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte(returnPage))
}

// Location implements reconcile.AuthWindow. Until the flow redirects back the
// location belongs to the third party and cannot be read.
func (w *CallbackWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.location == "" {
		return "", reconcile.ErrWindowUnreadable
	}
	return w.location, nil
}

// Close implements reconcile.AuthWindow
func (w *CallbackWindow) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := w.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop callback listener: %w", err)
	}
	return nil
}
