package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// flagClaims carries a stored value inside a signed token.
type flagClaims struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	jwt.RegisteredClaims
}

// Signed wraps a store and keeps every value as an HS256 token.
// Tokens that do not verify read as absent, so a hand-written flag no
// longer skips the gate.
type Signed struct {
	inner Store
	key   []byte
}

// Store is the read/write/delete contract shared by every backend.
type Store interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// NewSigned returns a Signed store over inner using the HMAC secret.
func NewSigned(inner Store, secret string) (*Signed, error) {
	if secret == "" {
		return nil, errors.New("empty signing key")
	}
	return &Signed{inner: inner, key: []byte(secret)}, nil
}

func (s *Signed) Read(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Read(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	claims := &flagClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false, nil
	}
	// A token minted for another key must not unlock this one
	if claims.Key != key {
		return "", false, nil
	}
	return claims.Value, true, nil
}

func (s *Signed) Write(ctx context.Context, key, value string) error {
	claims := &flagClaims{Key: key, Value: value}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return fmt.Errorf("sign flag: %w", err)
	}
	return s.inner.Write(ctx, key, signed)
}

func (s *Signed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
