// Package gateway implements the PayParts installment gateway protocol:
// request signing, response verification and callback authentication.
package gateway

import (
	"fmt"
	"strings"

	"payparts/entity"
)

const (
	ApiUrl = "https://payparts2.privatbank.ua/ipp/v2"
	QrUrl  = "https://payparts2.privatbank.ua/ipp/qr/generate"

	// sandbox credentials published by the bank
	TestStoreId  = "4AAD1369CF734B64B70F"
	TestPassword = "75bef16bfdce4d0e9c0ad5a19b9940df"
)

// Store holds the merchant credentials. It is immutable after creation and
// safe to share between goroutines.
type Store struct {
	id       string
	password string
}

func NewStore(id, password string) (Store, error) {
	id = strings.TrimSpace(id)
	password = strings.TrimSpace(password)
	if id == "" {
		return Store{}, fmt.Errorf("store id is empty")
	}
	if len(id) > entity.StoreIdMaxLength {
		return Store{}, fmt.Errorf("store id is longer than %d characters", entity.StoreIdMaxLength)
	}
	if password == "" {
		return Store{}, fmt.Errorf("store password is empty")
	}
	return Store{id: id, password: password}, nil
}

func (s Store) Id() string {
	return s.id
}

// sign computes the request signature: storeId followed by operation fields.
func (s Store) sign(fields ...string) string {
	return Sign(s.password, append([]string{s.id}, fields...)...)
}
