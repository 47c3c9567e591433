package client

import (
	"context"
	"fmt"
	"strings"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"swapwizard/pkg/types"
)

// OneClickClient wraps the 1Click SDK. Swaps there are identified by the
// deposit address the user pays into.
type OneClickClient struct {
	client   *oneclick.APIClient
	jwtToken string
}

// NewOneClickClient creates a new 1Click API client
func NewOneClickClient(jwtToken string) *OneClickClient {
	config := oneclick.NewConfiguration()

	return &OneClickClient{
		client:   oneclick.NewAPIClient(config),
		jwtToken: jwtToken,
	}
}

func (c *OneClickClient) authContext(ctx context.Context) context.Context {
	if c.jwtToken == "" {
		return ctx
	}
	return context.WithValue(ctx, oneclick.ContextAccessToken, c.jwtToken)
}

// GetExecutionStatus checks the execution status of a swap
func (c *OneClickClient) GetExecutionStatus(ctx context.Context, depositAddress string) (*oneclick.GetExecutionStatusResponse, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetExecutionStatus(c.authContext(ctx)).DepositAddress(depositAddress).Execute()
	if err != nil {
		if httpResp != nil {
			return nil, fmt.Errorf("failed to get status: %w", &APIError{StatusCode: httpResp.StatusCode, Message: err.Error()})
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 {
		return nil, fmt.Errorf("failed to get status: %w", &APIError{StatusCode: httpResp.StatusCode})
	}

	return resp, nil
}

// GetSwap adapts the execution status to a swap snapshot so a deposit-address
// swap can be watched like any other. The access token is not used; 1Click
// authenticates with the configured JWT.
func (c *OneClickClient) GetSwap(ctx context.Context, _ string, depositAddress string) (*types.Swap, error) {
	status, err := c.GetExecutionStatus(ctx, depositAddress)
	if err != nil {
		return nil, err
	}

	swap := &types.Swap{
		ID:          depositAddress,
		Status:      MapOneClickStatus(status.GetStatus()),
		CreatedDate: status.GetUpdatedAt(),
	}

	details := status.GetSwapDetails()
	for _, tx := range details.GetDestinationChainTxHashes() {
		if hash := tx.GetHash(); hash != "" {
			swap.OutputTransactionID = hash
			break
		}
	}

	return swap, nil
}

// StatusView flattens an execution status for display
func (c *OneClickClient) StatusView(depositAddress string, status *oneclick.GetExecutionStatusResponse) *types.SwapStatusView {
	view := &types.SwapStatusView{
		SwapID:    depositAddress,
		Status:    strings.ToUpper(status.GetStatus()),
		UpdatedAt: status.GetUpdatedAt(),
	}

	details := status.GetSwapDetails()
	for _, tx := range details.GetDestinationChainTxHashes() {
		if hash := tx.GetHash(); hash != "" {
			view.TxHash = hash
			break
		}
	}
	if details.HasAmountInFormatted() {
		view.AmountIn = details.GetAmountInFormatted()
	}
	if details.HasAmountOutFormatted() {
		view.AmountOut = details.GetAmountOutFormatted()
	}

	return view
}

// MapOneClickStatus translates 1Click execution states into swap states
func MapOneClickStatus(status string) types.SwapStatus {
	switch strings.ToUpper(status) {
	case "SUCCESS", "COMPLETED":
		return types.SwapCompleted
	case "FAILED", "REFUNDED":
		return types.SwapFailed
	case "PENDING_DEPOSIT", "KNOWN_DEPOSIT_TX", "INCOMPLETE_DEPOSIT":
		return types.SwapUserTransferPending
	case "PROCESSING":
		return types.SwapLsTransferPending
	default:
		return types.SwapPending
	}
}
