// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"time"

	"senghor/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(subject uuid.UUID, kind service.TokenKind) (string, error) {
	args := m.Called(subject, kind)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) GeneratePair(subject uuid.UUID) (string, string, error) {
	args := m.Called(subject)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) Decode(token string) (*service.Claims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTokenService) AccessTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *MockTokenService) RefreshTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}
