package mocks

import (
	context "context"

	model "github.com/dtroode/roleauth/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// TokenService is a mock type for the TokenService type
type TokenService struct {
	mock.Mock
}

// Resolve provides a mock function with given fields: ctx, token
func (_m *TokenService) Resolve(ctx context.Context, token string) (model.User, error) {
	ret := _m.Called(ctx, token)

	return ret.Get(0).(model.User), ret.Error(1)
}

// NewTokenService creates a new instance of TokenService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
