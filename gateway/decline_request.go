package gateway

import (
	"strings"

	"github.com/shopspring/decimal"

	"payparts/entity"
)

// DeclineRequest returns a completed payment, fully or partially.
type DeclineRequest struct {
	OrderId     string          `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	RecipientId string          `json:"recipientId,omitempty"`
}

func (r *DeclineRequest) Path() string {
	return pathDecline
}

func (r *DeclineRequest) Validate() error {
	r.OrderId = strings.TrimSpace(r.OrderId)
	r.RecipientId = strings.TrimSpace(r.RecipientId)
	r.Amount = r.Amount.Round(2)

	v := &ValidationError{}
	validateOrderId(v, r.OrderId)
	validateMinorAmount(v, "amount", r.Amount)
	validateString(v, "recipientId", r.RecipientId, entity.OrderIdMaxLength, false)
	return v.orNil()
}

func (r *DeclineRequest) Payload(store Store) (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &entity.DeclinePayload{
		StoreId:     store.Id(),
		OrderId:     r.OrderId,
		Amount:      jsonAmount(r.Amount),
		RecipientId: r.RecipientId,
		Signature:   store.sign(r.OrderId, FormatAmount(r.Amount)),
	}, nil
}
