package gateway

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"payparts/entity"
)

// ValidationError collects field level problems found before sending.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, format string, args ...interface{}) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], fmt.Sprintf(format, args...))
}

func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil returns nil when nothing was collected.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func validateOrderId(v *ValidationError, orderId string) {
	validateString(v, "orderId", orderId, entity.OrderIdMaxLength, true)
}

func validateString(v *ValidationError, field, value string, max int, required bool) {
	if value == "" {
		if required {
			v.Add(field, "is required")
		}
		return
	}
	if utf8.RuneCountInString(value) > max {
		v.Add(field, "must be at most %d characters", max)
	}
}

// validateUrl accepts empty values; otherwise requires an absolute http(s) URL.
func validateUrl(v *ValidationError, field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		v.Add(field, "is not a valid URL")
	}
}

func validateMinorAmount(v *ValidationError, field string, amount decimal.Decimal) {
	if amount.Round(2).LessThan(entity.MinorAmountMin) {
		v.Add(field, "must be at least %s", entity.MinorAmountMin.StringFixed(2))
	}
}
