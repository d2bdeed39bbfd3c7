package gateway

import (
	"strings"

	"payparts/entity"
)

// Request is a single gateway operation. Validate trims text fields and
// rounds amounts in place before checking them; Payload validates and
// returns the signed body ready to be sent.
type Request interface {
	Path() string
	Validate() error
	Payload(store Store) (interface{}, error)
}

const (
	pathCreate      = "payment/create"
	pathHold        = "payment/hold"
	pathConfirm     = "payment/confirm"
	pathCancel      = "payment/cancel"
	pathDecline     = "payment/decline"
	pathDescription = "payment/description"
	pathState       = "payment/state"
)

// OrderRequest is an operation addressed by order id only: confirm or
// cancel of a held payment.
type OrderRequest struct {
	OrderId string `json:"orderId"`
	path    string
}

// NewConfirmRequest debits a held payment.
func NewConfirmRequest(orderId string) *OrderRequest {
	return &OrderRequest{OrderId: orderId, path: pathConfirm}
}

// NewCancelRequest releases a held payment.
func NewCancelRequest(orderId string) *OrderRequest {
	return &OrderRequest{OrderId: orderId, path: pathCancel}
}

func (r *OrderRequest) Path() string {
	return r.path
}

func (r *OrderRequest) Validate() error {
	r.OrderId = strings.TrimSpace(r.OrderId)
	v := &ValidationError{}
	validateOrderId(v, r.OrderId)
	if r.path != pathConfirm && r.path != pathCancel {
		v.Add("path", "unsupported operation %q", r.path)
	}
	return v.orNil()
}

func (r *OrderRequest) Payload(store Store) (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &entity.OrderPayload{
		StoreId:   store.Id(),
		OrderId:   r.OrderId,
		Signature: store.sign(r.OrderId),
	}, nil
}
