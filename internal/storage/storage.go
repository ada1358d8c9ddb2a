package storage

import (
	"errors"
	"fmt"
)

// SessionTokenKey is the only key the client persists
const SessionTokenKey = "session_token"

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("key not found")

// SecureStore is a small durable key-value store for credentials
type SecureStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Drivers accepted by New
const (
	DriverFile   = "file"
	DriverMemory = "memory"
)

// New returns the store for driver. path is only used by the file driver.
func New(driver, path string) (SecureStore, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
