package types

import "strings"

// DepositAddressSource tells the API which deposit address to return
type DepositAddressSource string

const (
	DepositAddressUserGenerated DepositAddressSource = "UserGenerated"
	DepositAddressManaged       DepositAddressSource = "Managed"
)

// DepositAddress is an address the user sends funds to
type DepositAddress struct {
	Address string `json:"address"`
	Source  string `json:"source,omitempty"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
