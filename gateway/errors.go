package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is the root of signature and store id failures.
	ErrAuthentication    = errors.New("authentication failed")
	ErrStoreMismatch     = fmt.Errorf("%w: store id mismatch", ErrAuthentication)
	ErrSignatureMismatch = fmt.Errorf("%w: signature mismatch", ErrAuthentication)

	ErrOrderMismatch       = errors.New("order id mismatch")
	ErrStateXor            = errors.New("exactly one of state and paymentState must be set")
	ErrUnknownPaymentState = errors.New("unknown payment state")
	ErrNoToken             = errors.New("payment token not received")
	ErrNoQr                = errors.New("qr code not received")
	ErrEmptyResponse       = errors.New("empty response")
)

// TransportError is a failed round trip or a non-2xx reply.
// StatusCode is zero when no reply was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed: status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is a reply that cannot be parsed or misses required fields.
type ProtocolError struct {
	Err  error
	Body string
}

func (e *ProtocolError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("invalid response: %v", e.Err)
	}
	return fmt.Sprintf("invalid response: %v; body: %s", e.Err, excerpt(e.Body))
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// BusinessError is a verified gateway reply with a non-SUCCESS state.
type BusinessError struct {
	State   string
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("gateway state %s: %s", e.State, e.Message)
}

func protocolError(err error, body []byte) *ProtocolError {
	return &ProtocolError{Err: err, Body: string(body)}
}

func excerpt(body string) string {
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
