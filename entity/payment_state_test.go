package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentState_Class(t *testing.T) {
	tests := []struct {
		state PaymentState
		want  StateClass
	}{
		{StateSuccess, ClassSuccess},
		{StateFail, ClassFailed},
		{StateCanceled, ClassFailed},
		{StateCreated, ClassPending},
		{StateClientWait, ClassPending},
		{StateOtpWaiting, ClassPending},
		{StatePpCreation, ClassPending},
		{StateLocked, ClassPending},
		{"REFUNDED", ClassUnknown},
		{"", ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Class())
			assert.Equal(t, tt.want != ClassUnknown, tt.state.IsKnown())
		})
	}
	assert.Equal(t, "unknown state", PaymentState("X").Description())
}

func TestCheckoutUrl(t *testing.T) {
	assert.Equal(t, "https://bank.example/ipp/v2/payment?token=a%2Bb",
		CheckoutUrl("https://bank.example/ipp/v2/", "a+b"))
	assert.Empty(t, CheckoutUrl("https://bank.example/ipp/v2", ""))

	response := &Response{Token: "t1"}
	assert.Equal(t, "https://bank.example/payment?token=t1", response.PaymentUrl("https://bank.example"))
}

func TestResponse_Text(t *testing.T) {
	assert.Equal(t, "msg", (&Response{Message: "msg", ErrorMessage: "err"}).Text())
	assert.Equal(t, "err", (&Response{ErrorMessage: "err"}).Text())
}

func TestProductsSum(t *testing.T) {
	products := []Product{
		{Name: "a", Count: 3, Price: decimal.RequireFromString("100.004")},
		{Name: "b", Count: 1, Price: decimal.RequireFromString("0.01")},
	}
	assert.Equal(t, "300.01", ProductsSum(products).StringFixed(2))
	assert.True(t, ProductsSum(nil).IsZero())
	assert.True(t, MerchantTypePB.IsValid())
	assert.False(t, MerchantType("XX").IsValid())
}
