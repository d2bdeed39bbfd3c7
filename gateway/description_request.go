package gateway

import (
	"strings"

	"payparts/entity"
)

// DescriptionRequest attaches a text description to an existing payment.
type DescriptionRequest struct {
	OrderId     string `json:"orderId"`
	Description string `json:"description"`
}

func (r *DescriptionRequest) Path() string {
	return pathDescription
}

func (r *DescriptionRequest) Validate() error {
	r.OrderId = strings.TrimSpace(r.OrderId)
	r.Description = strings.TrimSpace(r.Description)

	v := &ValidationError{}
	validateOrderId(v, r.OrderId)
	if r.Description == "" {
		v.Add("description", "is required")
	}
	return v.orNil()
}

func (r *DescriptionRequest) Payload(store Store) (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &entity.DescriptionPayload{
		StoreId:     store.Id(),
		OrderId:     r.OrderId,
		Description: r.Description,
		Signature:   store.sign(r.OrderId, r.Description),
	}, nil
}
