package reconcile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"swapwizard/pkg/session"
	"swapwizard/pkg/types"
	"swapwizard/pkg/wizard"
)

const (
	// SendLimitParam carries the authorized amount on the return URL
	SendLimitParam = "send_limit_amount"
	// RedirectPath is where the authorization flow sends the user back to
	RedirectPath = "/salon"

	InsufficientAuthorizationMessage = "You did not authorize enough"

	authorizationBuffer = 5
)

// ConnectOutcome is the last decision taken by AccountConnect
type ConnectOutcome string

const (
	ConnectWaiting      ConnectOutcome = "waiting"
	ConnectStale        ConnectOutcome = "stale"
	ConnectNoSession    ConnectOutcome = "no_session"
	ConnectConfirmed    ConnectOutcome = "confirmed"
	ConnectInsufficient ConnectOutcome = "insufficient"
)

// MinimalAuthorizeAmount is the USD amount the user must authorize on the
// exchange: the value of the swap plus a 5 USD buffer, rounded half up.
func MinimalAuthorizeAmount(usdPrice float64, amount string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return math.Floor(usdPrice*value + authorizationBuffer + 0.5), nil
}

type authorizationState struct {
	UserID      string `json:"UserId"`
	RedirectURL string `json:"RedirectUrl"`
}

// AuthorizationURL builds the URL that starts the exchange OAuth flow. The
// state is base64 encoded JSON naming the user and where to redirect back.
func AuthorizationURL(oauthURL, subject, origin string) (string, error) {
	state, err := json.Marshal(authorizationState{
		UserID:      subject,
		RedirectURL: strings.TrimRight(origin, "/") + RedirectPath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode authorization state: %w", err)
	}
	return oauthURL + base64.StdEncoding.EncodeToString(state), nil
}

// AccountConnect waits for the exchange authorization window to return to
// the application and checks the authorized amount
type AccountConnect struct {
	Wizard        wizard.Navigator
	Session       session.Provider
	Exchanges     UserExchangeLister
	Exchange      types.Exchange
	MinimalAmount float64
	AppOrigin     string
	Notifier      Notifier
	Logger        logrus.FieldLogger

	mu      sync.Mutex
	window  AuthWindow
	outcome ConnectOutcome
}

// SetWindow attaches the authorization window. Polling may start before the
// window exists; ticks wait until it does.
func (c *AccountConnect) SetWindow(w AuthWindow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
}

// Outcome returns the decision of the last tick
func (c *AccountConnect) Outcome() ConnectOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *AccountConnect) setOutcome(o ConnectOutcome) {
	c.mu.Lock()
	c.outcome = o
	c.mu.Unlock()
}

func (c *AccountConnect) currentWindow() AuthWindow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

// Tick implements Checker
func (c *AccountConnect) Tick(ctx context.Context) (bool, error) {
	if c.Wizard.Current() != wizard.CreateOAuth {
		c.setOutcome(ConnectStale)
		return true, nil
	}

	cred, ok := c.Session.Get()
	if !ok {
		c.setOutcome(ConnectNoSession)
		if err := c.Wizard.GoToStep(ctx, wizard.CreateEmail); err != nil {
			return false, fmt.Errorf("failed to go to email step: %w", err)
		}
		return true, nil
	}

	window := c.currentWindow()
	if window == nil {
		c.setOutcome(ConnectWaiting)
		return false, nil
	}
	href, err := window.Location()
	if err != nil || !onOrigin(href, c.AppOrigin) {
		c.setOutcome(ConnectWaiting)
		return false, nil
	}

	userExchanges, err := c.Exchanges.GetUserExchanges(ctx, cred.AccessToken)
	if err != nil {
		return false, err
	}

	if c.Exchange.RequiresAuthorization() && !exchangeEnabled(userExchanges, c.Exchange.ID) {
		c.setOutcome(ConnectWaiting)
		return false, nil
	}

	authorized := authorizedAmount(href)
	if authorized < c.MinimalAmount {
		c.setOutcome(ConnectInsufficient)
		if c.Notifier != nil {
			c.Notifier.Error(InsufficientAuthorizationMessage)
		}
	} else {
		c.setOutcome(ConnectConfirmed)
		if err := c.Wizard.GoToStep(ctx, wizard.CreateConfirm); err != nil {
			return false, fmt.Errorf("failed to go to confirm step: %w", err)
		}
	}

	if err := window.Close(); err != nil && c.Logger != nil {
		c.Logger.WithError(err).Warn("failed to close authorization window")
	}
	return true, nil
}

func exchangeEnabled(exchanges []types.UserExchange, id string) bool {
	for _, e := range exchanges {
		if e.ExchangeID == id {
			return true
		}
	}
	return false
}

// authorizedAmount reads send_limit_amount. A missing or malformed value
// counts as nothing authorized.
func authorizedAmount(href string) float64 {
	u, err := url.Parse(href)
	if err != nil {
		return 0
	}
	amount, err := strconv.ParseFloat(u.Query().Get(SendLimitParam), 64)
	if err != nil || math.IsNaN(amount) {
		return 0
	}
	return amount
}
