package gateway

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"payparts/entity"
)

// PaymentRequest creates a payment. With Hold set the funds are only
// reserved and the payment must be confirmed later.
//
// The successful reply carries a token used for the checkout redirect and
// QR generation.
type PaymentRequest struct {
	OrderId      string              `json:"orderId"`
	PartsCount   int                 `json:"partsCount"`
	MerchantType entity.MerchantType `json:"merchantType"`
	// Scheme is assigned by the bank, it is not signed.
	Scheme   *int             `json:"scheme,omitempty"`
	Products []entity.Product `json:"products"`
	// Amount is optional; when set it must equal the sum of products.
	Amount decimal.Decimal `json:"amount"`
	// RecipientId overrides the store's default recipient, it is not signed.
	RecipientId string `json:"recipientId,omitempty"`
	ResponseUrl string `json:"responseUrl,omitempty"`
	RedirectUrl string `json:"redirectUrl,omitempty"`
	Hold        bool   `json:"hold"`
}

func (r *PaymentRequest) Path() string {
	if r.Hold {
		return pathHold
	}
	return pathCreate
}

// Total returns the aggregate amount of the products.
func (r *PaymentRequest) Total() decimal.Decimal {
	return entity.ProductsSum(r.Products)
}

func (r *PaymentRequest) Validate() error {
	r.normalize()
	v := &ValidationError{}

	validateOrderId(v, r.OrderId)
	if r.PartsCount < entity.PartsCountMin || r.PartsCount > entity.PartsCountMax {
		v.Add("partsCount", "must be between %d and %d", entity.PartsCountMin, entity.PartsCountMax)
	}
	if r.MerchantType == "" {
		v.Add("merchantType", "is required")
	} else if !r.MerchantType.IsValid() {
		v.Add("merchantType", "unknown merchant type %q", r.MerchantType)
	}
	if r.Scheme != nil && *r.Scheme < 0 {
		v.Add("scheme", "must not be negative")
	}
	validateString(v, "recipientId", r.RecipientId, entity.OrderIdMaxLength, false)
	validateUrl(v, "responseUrl", r.ResponseUrl)
	validateUrl(v, "redirectUrl", r.RedirectUrl)

	if len(r.Products) == 0 {
		v.Add("products", "is required")
		return v.orNil()
	}
	for i, p := range r.Products {
		validateProduct(v, i, p)
	}
	// the sum is checked only for valid lines
	if v.Has("products") {
		return v.orNil()
	}
	total := r.Total()
	if total.LessThan(entity.AmountMin) || total.GreaterThan(entity.AmountMax) {
		v.Add("amount", "sum of products must be between %s and %s", entity.AmountMin, entity.AmountMax)
	}
	if !r.Amount.IsZero() && !r.Amount.Round(2).Equal(total) {
		v.Add("amount", "%s does not match sum of products %s", r.Amount.StringFixed(2), total.StringFixed(2))
	}
	return v.orNil()
}

func (r *PaymentRequest) normalize() {
	r.OrderId = strings.TrimSpace(r.OrderId)
	r.MerchantType = entity.MerchantType(strings.TrimSpace(string(r.MerchantType)))
	r.RecipientId = strings.TrimSpace(r.RecipientId)
	r.ResponseUrl = strings.TrimSpace(r.ResponseUrl)
	r.RedirectUrl = strings.TrimSpace(r.RedirectUrl)
	for i := range r.Products {
		r.Products[i].Name = strings.TrimSpace(r.Products[i].Name)
		r.Products[i].Price = r.Products[i].Price.Round(2)
	}
}

func validateProduct(v *ValidationError, i int, p entity.Product) {
	if p.Name == "" {
		v.Add("products", "#%d name is required", i+1)
	} else if len([]rune(p.Name)) > entity.ProductNameMaxLength {
		v.Add("products", "#%d name must be at most %d characters", i+1, entity.ProductNameMaxLength)
	}
	if p.Count < 1 {
		v.Add("products", "#%d count must be at least 1", i+1)
	}
	if p.Price.LessThan(entity.MinorAmountMin) {
		v.Add("products", "#%d price must be at least %s", i+1, entity.MinorAmountMin.StringFixed(2))
	}
}

// SignatureFields returns the operation fields in signing order, store id excluded.
func (r *PaymentRequest) SignatureFields() []string {
	fields := []string{
		r.OrderId,
		FormatAmount(r.Total()),
		strconv.Itoa(r.PartsCount),
		string(r.MerchantType),
		r.ResponseUrl,
		r.RedirectUrl,
	}
	for _, p := range r.Products {
		fields = append(fields, p.Name, strconv.Itoa(p.Count), FormatAmount(p.Price))
	}
	return fields
}

func (r *PaymentRequest) Payload(store Store) (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	products := make([]entity.ProductPayload, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, entity.ProductPayload{
			Name:  p.Name,
			Count: p.Count,
			Price: jsonAmount(p.Price),
		})
	}
	return &entity.PaymentPayload{
		StoreId:      store.Id(),
		OrderId:      r.OrderId,
		Amount:       jsonAmount(r.Total()),
		PartsCount:   r.PartsCount,
		MerchantType: r.MerchantType,
		Scheme:       r.Scheme,
		RecipientId:  r.RecipientId,
		ResponseUrl:  r.ResponseUrl,
		RedirectUrl:  r.RedirectUrl,
		Products:     products,
		Signature:    store.sign(r.SignatureFields()...),
	}, nil
}
