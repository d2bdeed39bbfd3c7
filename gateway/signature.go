package gateway

import (
	"crypto/subtle"
	"strings"

	"gitee.com/golang-module/dongle"
)

// Sign computes Base64(SHA1(password + fields + password)). Fields are
// concatenated without separators, their order is fixed per operation.
func Sign(password string, fields ...string) string {
	var b strings.Builder
	b.WriteString(password)
	for _, field := range fields {
		b.WriteString(field)
	}
	b.WriteString(password)
	return dongle.Encrypt.FromString(b.String()).BySha1().ToBase64String()
}

// Verify recomputes the signature over fields and compares it with the
// received one, case-sensitive.
func Verify(password, signature string, fields ...string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(password, fields...)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
