// Package kv provides durable key-value storage backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// KeyMaxLength is the maximum length of a storage key.
	KeyMaxLength = 256

	// ValueMaxSize is the maximum size of a stored value in bytes.
	ValueMaxSize = 8 * 1024 * 1024
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrInvalidKey    = errors.New("invalid storage key")
	ErrValueTooBig   = errors.New("storage value exceeds maximum size")
	ErrCircuitOpen   = errors.New("storage circuit breaker is open")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store persists opaque values under text keys.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// forbiddenKeyChars would let a key escape its namespace or its directory.
var forbiddenKeyChars = []string{"/", "\\", "\x00", ":", "*", "?"}

// ValidateKey checks that key is usable by every backend.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > KeyMaxLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, KeyMaxLength)
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, c := range forbiddenKeyChars {
		if strings.Contains(key, c) {
			return fmt.Errorf("%w: contains %q", ErrInvalidKey, c)
		}
	}
	return nil
}

func checkValue(value []byte) error {
	if len(value) > ValueMaxSize {
		return ErrValueTooBig
	}
	return nil
}
