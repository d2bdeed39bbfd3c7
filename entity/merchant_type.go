package entity

import "github.com/shopspring/decimal"

// MerchantType is the installment plan product code.
type MerchantType string

const (
	// MerchantTypeII instant installment
	MerchantTypeII MerchantType = "II"
	// MerchantTypeIA instant installment, promotional
	MerchantTypeIA MerchantType = "IA"
	// MerchantTypePP payment in parts
	MerchantTypePP MerchantType = "PP"
	// MerchantTypePB payment in parts, money in period
	MerchantTypePB MerchantType = "PB"
)

var MerchantTypes = map[MerchantType]string{
	MerchantTypeII: "instant installment",
	MerchantTypeIA: "instant installment (promotional)",
	MerchantTypePP: "payment in parts",
	MerchantTypePB: "payment in parts (money in period)",
}

func (t MerchantType) IsValid() bool {
	_, ok := MerchantTypes[t]
	return ok
}

// Protocol bounds
const (
	PartsCountMin = 2
	PartsCountMax = 25

	OrderIdMaxLength     = 64
	StoreIdMaxLength     = 20
	ProductNameMaxLength = 128
)

var (
	// AmountMin and AmountMax bound the aggregate purchase amount.
	AmountMin = decimal.NewFromInt(300)
	AmountMax = decimal.NewFromInt(50000)
	// MinorAmountMin is the smallest price or adjustment amount.
	MinorAmountMin = decimal.RequireFromString("0.01")
)
