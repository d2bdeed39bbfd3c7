package gateway

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"payparts/entity"
)

// QrRequest generates a QR code for the checkout of a created payment.
// It is sent as GET with query parameters to the QR endpoint.
type QrRequest struct {
	Token  string              `json:"token"`
	Amount decimal.Decimal     `json:"amount"`
	Size   string              `json:"size,omitempty"`
	Type   entity.MerchantType `json:"type,omitempty"`
}

func (r *QrRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	r.Size = strings.TrimSpace(r.Size)
	r.Type = entity.MerchantType(strings.TrimSpace(string(r.Type)))
	r.Amount = r.Amount.Round(2)

	v := &ValidationError{}
	if r.Token == "" {
		v.Add("token", "is required")
	}
	validateMinorAmount(v, "amount", r.Amount)
	if r.Type != "" && !r.Type.IsValid() {
		v.Add("type", "unknown merchant type %q", r.Type)
	}
	return v.orNil()
}

// Query returns the signed query parameters.
func (r *QrRequest) Query(store Store) (url.Values, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	amount := FormatAmount(r.Amount)
	query := url.Values{}
	query.Set("storeId", store.Id())
	query.Set("token", r.Token)
	query.Set("amount", r.Amount.StringFixed(2))
	if r.Size != "" {
		query.Set("size", r.Size)
	}
	if r.Type != "" {
		query.Set("type", string(r.Type))
	}
	query.Set("signature", store.sign(r.Token, amount))
	return query, nil
}
