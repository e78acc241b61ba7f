package mocks

import (
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// TokenManager is a mock type for the TokenManager type
type TokenManager struct {
	mock.Mock
}

// Issue provides a mock function with given fields: userID
func (_m *TokenManager) Issue(userID uuid.UUID) (string, error) {
	ret := _m.Called(userID)

	return ret.String(0), ret.Error(1)
}

// Parse provides a mock function with given fields: token
func (_m *TokenManager) Parse(token string) (uuid.UUID, error) {
	ret := _m.Called(token)

	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// NewTokenManager creates a new instance of TokenManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
