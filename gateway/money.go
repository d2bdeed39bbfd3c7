package gateway

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders money for the signature payload: rounded to two
// decimals with the decimal point removed, 300.12 -> "30012", 0.01 -> "001".
func FormatAmount(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", "", 1)
}

// jsonAmount renders money for the JSON body as a two-decimal number.
func jsonAmount(amount decimal.Decimal) json.Number {
	return json.Number(amount.StringFixed(2))
}
