package mocks

import (
	"github.com/taskwell/taskwell-api/internal/service/auth"
)

// MockPasswordVerifier is a configurable mock of auth.PasswordVerifier.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}
