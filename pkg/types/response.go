// Package types holds the wire shapes shared by the marketplace API and its
// clients.
package types

// SuccessEnvelope wraps every 2xx body so the storefront can unwrap
// responses uniformly, whether the payload is a cart, a product page, or a
// placed order.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing slice of an error. Code carries the stable
// machine-readable identifier (VALIDATION_ERROR, NOT_FOUND, ...) and Details
// carries per-field validation output when present.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
