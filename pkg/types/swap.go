package types

import "time"

// SwapStatus is the lifecycle state of a swap as reported by the API
type SwapStatus string

const (
	SwapCreated             SwapStatus = "created"
	SwapPending             SwapStatus = "pending"
	SwapUserTransferPending SwapStatus = "user_transfer_pending"
	SwapUserTransferDelayed SwapStatus = "user_transfer_delayed"
	SwapLsTransferPending   SwapStatus = "ls_transfer_pending"
	SwapCompleted           SwapStatus = "completed"
	SwapFailed              SwapStatus = "failed"
	SwapCancelled           SwapStatus = "cancelled"
	SwapExpired             SwapStatus = "expired"
)

// IsFailure reports whether the swap ended without delivering funds
func (s SwapStatus) IsFailure() bool {
	return s == SwapFailed || s == SwapCancelled || s == SwapExpired
}

// IsTerminal reports whether the swap will not change status anymore
func (s SwapStatus) IsTerminal() bool {
	return s == SwapCompleted || s.IsFailure()
}

// Swap is the read-only snapshot of a remote swap record
type Swap struct {
	ID                      string     `json:"id"`
	Status                  SwapStatus `json:"status"`
	DestinationAddress      string     `json:"destination_address"`
	SourceNetwork           string     `json:"source_network,omitempty"`
	DestinationNetwork      string     `json:"destination_network,omitempty"`
	DestinationNetworkAsset string     `json:"destination_network_asset,omitempty"`
	RequestedAmount         float64    `json:"requested_amount,omitempty"`
	ReceivedAmount          float64    `json:"received_amount,omitempty"`
	ExchangeCurrencyID      string     `json:"exchange_currency_id,omitempty"`
	NetworkCurrencyID       string     `json:"network_currency_id,omitempty"`
	OutputTransactionID     string     `json:"output_transaction_id,omitempty"`
	CreatedDate             time.Time  `json:"created_date"`
}

// SwapStatusView holds formatted status information for display
type SwapStatusView struct {
	SwapID      string
	Status      string
	Destination string
	TxHash      string
	AmountIn    string
	AmountOut   string
	UpdatedAt   time.Time
}
