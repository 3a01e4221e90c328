package embed

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Signer interface {
	Sign(claims *Claims) (string, error)
}

type hmacSigner struct {
	key []byte
}

// NewHMACSigner returns a Signer producing compact HS256 tokens keyed with
// the raw bytes of key.
func NewHMACSigner(key string) (Signer, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrSigning)
	}
	return &hmacSigner{key: []byte(key)}, nil
}

func (s *hmacSigner) Sign(claims *Claims) (string, error) {
	if len(s.key) == 0 {
		return "", fmt.Errorf("%w: empty key", ErrSigning)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return token, nil
}
