package gateway

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payparts/entity"
)

func testStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(TestStoreId, TestPassword)
	require.NoError(t, err)
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func toolRequest() *PaymentRequest {
	return &PaymentRequest{
		OrderId:      "123",
		PartsCount:   2,
		MerchantType: entity.MerchantTypePP,
		Products:     []entity.Product{{Name: "Tool", Price: dec("300.12"), Count: 1}},
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var validationError *ValidationError
	require.True(t, errors.As(err, &validationError), "expected validation error, got %v", err)
	return validationError.Fields
}

func TestPaymentRequest_Amount(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		count   int
		wantErr bool
	}{
		{name: "minimum", price: "300", count: 1},
		{name: "maximum", price: "25000", count: 2},
		{name: "below minimum", price: "299.99", count: 1, wantErr: true},
		{name: "above maximum", price: "50000.01", count: 1, wantErr: true},
		{name: "rounded price", price: "100.004", count: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := toolRequest()
			r.Products = []entity.Product{{Name: "Tool", Price: dec(tt.price), Count: tt.count}}
			err := r.Validate()
			if tt.wantErr {
				assert.Contains(t, validationFields(t, err), "amount")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPaymentRequest_PartsCount(t *testing.T) {
	for parts, valid := range map[int]bool{1: false, 2: true, 12: true, 25: true, 26: false} {
		r := toolRequest()
		r.PartsCount = parts
		err := r.Validate()
		if valid {
			assert.NoError(t, err, "parts %d", parts)
		} else {
			assert.Contains(t, validationFields(t, err), "partsCount", "parts %d", parts)
		}
	}
}

func TestPaymentRequest_Invalid(t *testing.T) {
	long := make([]rune, 65)
	for i := range long {
		long[i] = 'x'
	}
	tests := []struct {
		name   string
		modify func(r *PaymentRequest)
		field  string
	}{
		{"empty order", func(r *PaymentRequest) { r.OrderId = "  " }, "orderId"},
		{"long order", func(r *PaymentRequest) { r.OrderId = string(long) }, "orderId"},
		{"merchant type", func(r *PaymentRequest) { r.MerchantType = "XX" }, "merchantType"},
		{"no merchant type", func(r *PaymentRequest) { r.MerchantType = "" }, "merchantType"},
		{"no products", func(r *PaymentRequest) { r.Products = nil }, "products"},
		{"product name", func(r *PaymentRequest) { r.Products[0].Name = " " }, "products"},
		{"product count", func(r *PaymentRequest) { r.Products[0].Count = 0 }, "products"},
		{"product price", func(r *PaymentRequest) { r.Products[0].Price = dec("0.004") }, "products"},
		{"response url", func(r *PaymentRequest) { r.ResponseUrl = "not a url" }, "responseUrl"},
		{"redirect url", func(r *PaymentRequest) { r.RedirectUrl = "ftp://shop.example/" }, "redirectUrl"},
		{"negative scheme", func(r *PaymentRequest) { s := -1; r.Scheme = &s }, "scheme"},
		{"amount mismatch", func(r *PaymentRequest) { r.Amount = dec("300.13") }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := toolRequest()
			tt.modify(r)
			assert.Contains(t, validationFields(t, r.Validate()), tt.field)
		})
	}
}

func TestPaymentRequest_AmountMatchesProducts(t *testing.T) {
	r := toolRequest()
	r.Products = []entity.Product{
		{Name: "Paper", Price: dec("0.01"), Count: 2},
		{Name: "Car", Price: dec("123"), Count: 1},
		{Name: "Internet", Price: dec("123.123"), Count: 3},
	}
	r.Amount = dec("492.38")
	require.NoError(t, r.Validate())
	assert.Equal(t, "492.38", r.Total().StringFixed(2))
	assert.Equal(t, "123.12", r.Products[2].Price.String())
}

func TestPaymentRequest_Payload(t *testing.T) {
	store := testStore(t)
	r := toolRequest()
	r.ResponseUrl = " https://shop.example/callback "
	r.RedirectUrl = "https://shop.example/"

	payload, err := r.Payload(store)
	require.NoError(t, err)
	p := payload.(*entity.PaymentPayload)

	assert.Equal(t, TestStoreId, p.StoreId)
	assert.Equal(t, "123", p.OrderId)
	assert.Equal(t, json.Number("300.12"), p.Amount)
	assert.Equal(t, "https://shop.example/callback", p.ResponseUrl)
	expected := referenceSign(TestPassword,
		TestStoreId, "123", "30012", "2", "PP", "https://shop.example/callback", "https://shop.example/",
		"Tool", "1", "30012")
	assert.Equal(t, expected, p.Signature)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"storeId": "4AAD1369CF734B64B70F",
		"orderId": "123",
		"amount": 300.12,
		"partsCount": 2,
		"merchantType": "PP",
		"responseUrl": "https://shop.example/callback",
		"redirectUrl": "https://shop.example/",
		"products": [{"name": "Tool", "count": 1, "price": 300.12}],
		"signature": "`+expected+`"
	}`, string(body))
}

func TestPaymentRequest_Path(t *testing.T) {
	r := toolRequest()
	assert.Equal(t, "payment/create", r.Path())
	r.Hold = true
	assert.Equal(t, "payment/hold", r.Path())
}

func TestPaymentRequest_ProductsJson(t *testing.T) {
	var r PaymentRequest
	err := json.Unmarshal([]byte(`{"orderId":"7","partsCount":3,"merchantType":"II",
		"products":[{"name":"Tool","count":2,"price":"150.5"}]}`), &r)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	assert.Equal(t, "301.00", r.Total().StringFixed(2))
}
