package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"payparts/entity"
)

// DecodeResponse parses a raw JSON body into a key/value map and then into
// a Response. Signature and store checks are left to ValidateResponse.
func DecodeResponse(body []byte) (*entity.Response, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, protocolError(ErrEmptyResponse, body)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, protocolError(fmt.Errorf("decode json: %w", err), body)
	}
	response, err := ParseResponse(data)
	if err != nil {
		return nil, protocolError(err, body)
	}
	return response, nil
}

// ParseResponse reads the known fields of a parsed JSON object. Values are
// coerced to trimmed strings; unknown fields are ignored.
func ParseResponse(data map[string]interface{}) (*entity.Response, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}
	var err error
	field := func(key string) string {
		if err != nil {
			return ""
		}
		value, ok := data[key]
		if !ok || value == nil {
			return ""
		}
		var s string
		if s, err = cast.ToStringE(value); err != nil {
			err = fmt.Errorf("field %s: %w", key, err)
			return ""
		}
		return strings.TrimSpace(s)
	}
	response := &entity.Response{
		State:        field("state"),
		PaymentState: field("paymentState"),
		StoreId:      field("storeId"),
		OrderId:      field("orderId"),
		Token:        field("token"),
		Message:      field("message"),
		Signature:    field("signature"),
		ErrorMessage: field("errorMessage"),
		Locale:       field("locale"),
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ValidateResponse checks a parsed reply or callback, in order: exactly one
// of state/paymentState, a known lifecycle code, the store id, the signature
// and, when expectedOrderId is not empty, the order id.
func ValidateResponse(store Store, response *entity.Response, expectedOrderId string) error {
	if (response.State == "") == (response.PaymentState == "") {
		return &ProtocolError{Err: ErrStateXor}
	}
	if response.PaymentState != "" && !response.Lifecycle().IsKnown() {
		return &ProtocolError{Err: fmt.Errorf("%w: %s", ErrUnknownPaymentState, response.PaymentState)}
	}
	if response.StoreId != "" && response.StoreId != store.Id() {
		return fmt.Errorf("%w: %s", ErrStoreMismatch, response.StoreId)
	}
	if !Verify(store.password, response.Signature, response.SignatureFields()...) {
		return ErrSignatureMismatch
	}
	if expectedOrderId != "" && response.OrderId != "" && response.OrderId != expectedOrderId {
		return &ProtocolError{Err: fmt.Errorf("%w: %s", ErrOrderMismatch, response.OrderId)}
	}
	return nil
}

// checkState turns a non-SUCCESS operation state into a business failure.
// Replies carrying paymentState instead are status reports and pass as is.
func checkState(response *entity.Response) error {
	if response.State == "" {
		return nil
	}
	if entity.PaymentState(response.State) != entity.StateSuccess {
		return &BusinessError{State: response.State, Message: response.Text()}
	}
	return nil
}

// SignResponse fills the signature of a response. Used by gateway
// simulators and tests to produce callbacks the store accepts.
func SignResponse(store Store, response *entity.Response) {
	response.Signature = Sign(store.password, response.SignatureFields()...)
}
