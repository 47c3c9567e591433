package wizard

// Step names a position in a wizard flow
type Step string

// Steps of the swap creation flow
const (
	CreateEmail   Step = "Email"
	CreateOAuth   Step = "OAuth"
	CreateConfirm Step = "Confirm"
)

// Steps of the swap processing flow
const (
	ProcessExternalPayment Step = "ExternalPayment"
	ProcessEmail           Step = "Email"
	ProcessSuccess         Step = "Success"
	ProcessFailed          Step = "Failed"
)

// String implements fmt.Stringer
func (s Step) String() string {
	return string(s)
}
