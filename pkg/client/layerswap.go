package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"swapwizard/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// LayerswapClient talks to the swap and rewards API
type LayerswapClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
	logger     logrus.FieldLogger
}

// Option configures a LayerswapClient
type Option func(*LayerswapClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *LayerswapClient) { c.httpClient = hc }
}

// WithRateLimit paces requests to at most rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *LayerswapClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithBackOff replaces the retry policy for transient failures
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *LayerswapClient) { c.newBackOff = f }
}

// WithLogger sets the logger used for retry diagnostics
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *LayerswapClient) { c.logger = l }
}

// NewLayerswapClient creates a new API client
func NewLayerswapClient(baseURL string, opts ...Option) *LayerswapClient {
	c := &LayerswapClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return backoff.WithMaxRetries(b, defaultMaxRetries)
		},
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSettings retrieves exchanges, networks, currencies and campaigns
func (c *LayerswapClient) GetSettings(ctx context.Context) (*types.Settings, error) {
	var settings types.Settings
	if err := c.get(ctx, "/settings", nil, "", &settings); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// GetSwap retrieves a swap by id
func (c *LayerswapClient) GetSwap(ctx context.Context, accessToken, swapID string) (*types.Swap, error) {
	var swap types.Swap
	if err := c.get(ctx, "/swaps/"+url.PathEscape(swapID), nil, accessToken, &swap); err != nil {
		return nil, fmt.Errorf("failed to get swap: %w", err)
	}
	return &swap, nil
}

// GetUserExchanges lists the exchange accounts the user has connected
func (c *LayerswapClient) GetUserExchanges(ctx context.Context, accessToken string) ([]types.UserExchange, error) {
	var exchanges []types.UserExchange
	if err := c.get(ctx, "/user_exchanges", nil, accessToken, &exchanges); err != nil {
		return nil, fmt.Errorf("failed to get user exchanges: %w", err)
	}
	return exchanges, nil
}

// GetRewards retrieves the reward snapshot of an address
func (c *LayerswapClient) GetRewards(ctx context.Context, campaign, address string) (*types.Reward, error) {
	var reward types.Reward
	path := fmt.Sprintf("/campaigns/%s/rewards/%s", url.PathEscape(campaign), url.PathEscape(address))
	if err := c.get(ctx, path, nil, "", &reward); err != nil {
		return nil, fmt.Errorf("failed to get rewards: %w", err)
	}
	return &reward, nil
}

// GetLeaderboard retrieves the campaign leaderboard
func (c *LayerswapClient) GetLeaderboard(ctx context.Context, campaign string) (*types.Leaderboard, error) {
	var leaderboard types.Leaderboard
	path := fmt.Sprintf("/campaigns/%s/leaderboard", url.PathEscape(campaign))
	if err := c.get(ctx, path, nil, "", &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return &leaderboard, nil
}

// GetPayouts lists rewards already paid to an address
func (c *LayerswapClient) GetPayouts(ctx context.Context, campaign, address string) ([]types.RewardPayout, error) {
	var payouts []types.RewardPayout
	path := fmt.Sprintf("/campaigns/%s/payouts/%s", url.PathEscape(campaign), url.PathEscape(address))
	if err := c.get(ctx, path, nil, "", &payouts); err != nil {
		return nil, fmt.Errorf("failed to get payouts: %w", err)
	}
	return payouts, nil
}

// GetDepositAddress retrieves the deposit address for a network
func (c *LayerswapClient) GetDepositAddress(ctx context.Context, accessToken, network string, source types.DepositAddressSource) (*types.DepositAddress, error) {
	var deposit types.DepositAddress
	query := url.Values{}
	query.Set("source", string(source))
	path := "/deposit_addresses/" + url.PathEscape(network)
	if err := c.get(ctx, path, query, accessToken, &deposit); err != nil {
		return nil, fmt.Errorf("failed to get deposit address: %w", err)
	}
	return &deposit, nil
}

// get performs a GET, retrying transport errors and 5xx/429 responses, and
// decodes the "data" field of the envelope into out
func (c *LayerswapClient) get(ctx context.Context, path string, query url.Values, accessToken string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0
	op := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		err := c.do(ctx, endpoint, accessToken, out)
		if err == nil {
			return nil
		}
		if apiErr, ok := err.(*APIError); ok && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		if _, ok := err.(*decodeError); ok {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		c.logger.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt,
		}).WithError(err).Debug("request failed, retrying")
		return err
	}

	return backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "failed to decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *LayerswapClient) do(ctx context.Context, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope types.APIResponse[json.RawMessage]
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		} else if len(body) > 0 && len(body) < 512 {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	var envelope types.APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &decodeError{err: err}
	}
	if envelope.Error != nil {
		return &APIError{StatusCode: resp.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
