package types

import "time"

// AuthorizationFlow describes how an exchange account gets connected
type AuthorizationFlow string

const (
	AuthorizationFlowNone           AuthorizationFlow = "none"
	AuthorizationFlowOAuth2         AuthorizationFlow = "o_auth2"
	AuthorizationFlowAPICredentials AuthorizationFlow = "api_credentials"
)

// Currency is an asset as listed in the settings
type Currency struct {
	ID       string  `json:"id"`
	Asset    string  `json:"asset"`
	Name     string  `json:"name"`
	Decimals int     `json:"decimals"`
	USDPrice float64 `json:"usd_price"`
}

// ExchangeCurrency links an exchange to a currency it supports
type ExchangeCurrency struct {
	ID    string `json:"id"`
	Asset string `json:"asset"`
}

// Exchange is a centralized exchange the user can withdraw from
type Exchange struct {
	ID                    string             `json:"id"`
	InternalName          string             `json:"internal_name"`
	DisplayName           string             `json:"display_name"`
	AuthorizationFlow     AuthorizationFlow  `json:"authorization_flow"`
	OAuthAuthorizationURL string             `json:"o_auth_authorization_url"`
	Currencies            []ExchangeCurrency `json:"currencies"`
}

// RequiresAuthorization reports whether the exchange needs an explicit connect flow
func (e *Exchange) RequiresAuthorization() bool {
	return e.AuthorizationFlow != "" && e.AuthorizationFlow != AuthorizationFlowNone
}

// UserExchange is an exchange account already connected by the user
type UserExchange struct {
	ExchangeID string `json:"exchange_id"`
	Note       string `json:"note,omitempty"`
}

// Network is a blockchain network as listed in the settings
type Network struct {
	InternalName                string             `json:"internal_name"`
	DisplayName                 string             `json:"display_name"`
	TransactionExplorerTemplate string             `json:"transaction_explorer_template"`
	AddressType                 string             `json:"address_type,omitempty"`
	Currencies                  []ExchangeCurrency `json:"currencies"`
}

// Campaign is a time-boxed reward program
type Campaign struct {
	Name                 string    `json:"name"`
	Asset                string    `json:"asset"`
	NetworkName          string    `json:"network_name"`
	RewardLimitForPeriod float64   `json:"reward_limit_for_period"`
	RewardLimitPeriod    int       `json:"reward_limit_period"`
	EndDate              time.Time `json:"end_date"`
}

// Settings is the catalogue the API serves to every client
type Settings struct {
	Exchanges  []Exchange `json:"exchanges"`
	Networks   []Network  `json:"networks"`
	Currencies []Currency `json:"currencies"`
	Campaigns  []Campaign `json:"campaigns"`
}

// FindExchange looks an exchange up by internal name, id or display name
func (s *Settings) FindExchange(name string) (*Exchange, bool) {
	for i := range s.Exchanges {
		e := &s.Exchanges[i]
		if equalFold(e.InternalName, name) || e.ID == name || equalFold(e.DisplayName, name) {
			return e, true
		}
	}
	return nil, false
}

// FindNetwork looks a network up by internal name
func (s *Settings) FindNetwork(name string) (*Network, bool) {
	for i := range s.Networks {
		if equalFold(s.Networks[i].InternalName, name) {
			return &s.Networks[i], true
		}
	}
	return nil, false
}

// FindCurrency looks a currency up by asset symbol
func (s *Settings) FindCurrency(asset string) (*Currency, bool) {
	for i := range s.Currencies {
		if equalFold(s.Currencies[i].Asset, asset) {
			return &s.Currencies[i], true
		}
	}
	return nil, false
}

// Campaign returns the campaign with the given name, or the first one when name is empty
func (s *Settings) Campaign(name string) (*Campaign, bool) {
	for i := range s.Campaigns {
		if name == "" || s.Campaigns[i].Name == name {
			return &s.Campaigns[i], true
		}
	}
	return nil, false
}
