package entity

import (
	"net/url"
	"strings"
)

// Response is a gateway reply to an operation or an inbound callback body.
// State is set on operation replies, PaymentState on status queries and callbacks.
type Response struct {
	State        string `json:"state,omitempty" bson:"state,omitempty"`
	PaymentState string `json:"paymentState,omitempty" bson:"payment_state,omitempty"`
	StoreId      string `json:"storeId,omitempty" bson:"store_id,omitempty"`
	OrderId      string `json:"orderId,omitempty" bson:"order_id,omitempty"`
	Token        string `json:"token,omitempty" bson:"token,omitempty"`
	Message      string `json:"message,omitempty" bson:"message,omitempty"`
	Signature    string `json:"signature,omitempty" bson:"signature,omitempty"`
	// ErrorMessage and Locale are undocumented, returned along with errors.
	ErrorMessage string `json:"errorMessage,omitempty" bson:"error_message,omitempty"`
	Locale       string `json:"locale,omitempty" bson:"locale,omitempty"`
}

// SignatureFields returns the response fields in signing order.
func (r *Response) SignatureFields() []string {
	return []string{r.State, r.StoreId, r.OrderId, r.Token, r.PaymentState, r.Message}
}

// Text returns the message, falling back to the error message.
func (r *Response) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.ErrorMessage
}

func (r *Response) Lifecycle() PaymentState {
	return PaymentState(r.PaymentState)
}

// PaymentUrl returns the checkout page address for the response token,
// empty when no token was received.
func (r *Response) PaymentUrl(baseUrl string) string {
	return CheckoutUrl(baseUrl, r.Token)
}

// CheckoutUrl builds {baseUrl}/payment?token={token}.
func CheckoutUrl(baseUrl, token string) string {
	if token == "" {
		return ""
	}
	query := url.Values{"token": []string{token}}
	return strings.TrimRight(baseUrl, "/") + "/payment?" + query.Encode()
}

// QrResponse is the reply of the QR generation endpoint.
type QrResponse struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	Qr      string `json:"qr"`
}
