package types

// APIResponse is the envelope every endpoint wraps its payload in
type APIResponse[T any] struct {
	Data  T             `json:"data"`
	Error *APIErrorBody `json:"error,omitempty"`
}

// APIErrorBody is the error part of the envelope
type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
