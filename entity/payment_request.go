package entity

import "encoding/json"

// Wire payloads sent to the gateway. Field order follows the gateway
// documentation; empty optional fields are omitted.

type ProductPayload struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Price json.Number `json:"price"`
}

type PaymentPayload struct {
	StoreId      string           `json:"storeId"`
	OrderId      string           `json:"orderId"`
	Amount       json.Number      `json:"amount"`
	PartsCount   int              `json:"partsCount"`
	MerchantType MerchantType     `json:"merchantType"`
	Scheme       *int             `json:"scheme,omitempty"`
	RecipientId  string           `json:"recipientId,omitempty"`
	ResponseUrl  string           `json:"responseUrl,omitempty"`
	RedirectUrl  string           `json:"redirectUrl,omitempty"`
	Products     []ProductPayload `json:"products"`
	Signature    string           `json:"signature"`
}

type OrderPayload struct {
	StoreId   string `json:"storeId"`
	OrderId   string `json:"orderId"`
	Signature string `json:"signature"`
}

type DeclinePayload struct {
	StoreId     string      `json:"storeId"`
	OrderId     string      `json:"orderId"`
	Amount      json.Number `json:"amount"`
	RecipientId string      `json:"recipientId,omitempty"`
	Signature   string      `json:"signature"`
}

type DescriptionPayload struct {
	StoreId     string `json:"storeId"`
	OrderId     string `json:"orderId"`
	Description string `json:"description"`
	Signature   string `json:"signature"`
}

// StatePayload carries the optional flags as "true"/"false" strings, the
// gateway does not accept JSON booleans here.
type StatePayload struct {
	StoreId    string `json:"storeId"`
	OrderId    string `json:"orderId"`
	ShowAmount string `json:"showAmount,omitempty"`
	ShowRefund string `json:"showRefund,omitempty"`
	Signature  string `json:"signature"`
}
