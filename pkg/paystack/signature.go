package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader is the header Paystack sends webhook signatures in.
const SignatureHeader = "X-Paystack-Signature"

// Sign computes the hex HMAC-SHA512 of payload under secret. This is the
// signature scheme Paystack applies to webhook bodies.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureValid reports whether header matches the expected signature of
// payload. The comparison is constant-time; a length mismatch is treated
// as a plain non-match.
func SignatureValid(payload []byte, secret, header string) bool {
	if header == "" || secret == "" {
		return false
	}
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(header))
}
