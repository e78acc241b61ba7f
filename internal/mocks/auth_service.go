package mocks

import (
	context "context"

	model "github.com/dtroode/roleauth/internal/model"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// AuthService is a mock type for the AuthService type
type AuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, params
func (_m *AuthService) Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error) {
	ret := _m.Called(ctx, params)

	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

// Login provides a mock function with given fields: ctx, email, password
func (_m *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResult, error) {
	ret := _m.Called(ctx, email, password)

	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

// UpdateProfile provides a mock function with given fields: ctx, userID, update
func (_m *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.UserView, error) {
	ret := _m.Called(ctx, userID, update)

	return ret.Get(0).(model.UserView), ret.Error(1)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
