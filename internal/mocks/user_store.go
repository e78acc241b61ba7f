// Package mocks provides testify mocks for the interfaces in model and service.
package mocks

import (
	context "context"

	model "github.com/dtroode/roleauth/internal/model"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// UserStore is a mock type for the UserStore type
type UserStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, user
func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)

	if rf, ok := ret.Get(0).(func(context.Context, model.User) (model.User, error)); ok {
		return rf(ctx, user)
	}

	return ret.Get(0).(model.User), ret.Error(1)
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)

	return ret.Get(0).(model.User), ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)

	return ret.Get(0).(model.User), ret.Error(1)
}

// Save provides a mock function with given fields: ctx, user
func (_m *UserStore) Save(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)

	if rf, ok := ret.Get(0).(func(context.Context, model.User) (model.User, error)); ok {
		return rf(ctx, user)
	}

	return ret.Get(0).(model.User), ret.Error(1)
}

// Ping provides a mock function with given fields: ctx
func (_m *UserStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}

// NewUserStore creates a new instance of UserStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
