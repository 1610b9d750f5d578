package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SigningKeySize is the length of generated HS512 keys in bytes.
const SigningKeySize = 64

var errShortKey = errors.New("signing key shorter than 64 bytes")

// NewSigningKey reads SigningKeySize bytes from crypto/rand.
func NewSigningKey() ([]byte, error) {
	key := make([]byte, SigningKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncodeSigningKey returns key in the standard padded base64 form read from JWT_SECRET_KEY.
func EncodeSigningKey(key []byte) (string, error) {
	if len(key) < SigningKeySize {
		return "", errShortKey
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
