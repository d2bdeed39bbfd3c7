package gateway

import (
	"strconv"
	"strings"

	"payparts/entity"
)

// StateRequest queries the lifecycle state of a payment. Nil flags are not sent.
type StateRequest struct {
	OrderId    string `json:"orderId"`
	ShowAmount *bool  `json:"showAmount,omitempty"`
	ShowRefund *bool  `json:"showRefund,omitempty"`
}

func (r *StateRequest) Path() string {
	return pathState
}

func (r *StateRequest) Validate() error {
	r.OrderId = strings.TrimSpace(r.OrderId)
	v := &ValidationError{}
	validateOrderId(v, r.OrderId)
	return v.orNil()
}

func (r *StateRequest) Payload(store Store) (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &entity.StatePayload{
		StoreId:    store.Id(),
		OrderId:    r.OrderId,
		ShowAmount: flag(r.ShowAmount),
		ShowRefund: flag(r.ShowRefund),
		Signature:  store.sign(r.OrderId),
	}, nil
}

func flag(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
