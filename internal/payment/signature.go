// internal/payment/signature.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"strconv"
	"strings"

	"fitness-nutri/internal/apperr"
)

// VerifySignature checks the x-signature header against an HMAC-SHA256 of
// the raw body under the shared secret. The header carries the digest as a
// comma-separated list of decimal byte values. Comparison is constant time.
// A missing signature or missing secret is rejected, never skipped.
func VerifySignature(body []byte, header, secret string) error {
	if header == "" || secret == "" {
		return apperr.ErrInvalidSignature
	}

	claimed, err := parseSignature(header)
	if err != nil {
		return apperr.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(claimed, expected) {
		return apperr.ErrInvalidSignature
	}
	return nil
}

// SignBody produces the header value VerifySignature accepts. Used by tests
// and local tooling.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	digest := mac.Sum(nil)

	parts := make([]string, len(digest))
	for i, b := range digest {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

func parseSignature(header string) ([]byte, error) {
	parts := strings.Split(header, ",")
	out := make([]byte, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return nil, apperr.ErrInvalidSignature
		}
		out[i] = byte(n)
	}
	return out, nil
}
