package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// AttemptLimiter is a mock type for the AttemptLimiter type
type AttemptLimiter struct {
	mock.Mock
}

// Allow provides a mock function with given fields: ctx, key
func (_m *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)

	return ret.Bool(0), ret.Error(1)
}

// RecordFailure provides a mock function with given fields: ctx, key
func (_m *AttemptLimiter) RecordFailure(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	return ret.Error(0)
}

// Reset provides a mock function with given fields: ctx, key
func (_m *AttemptLimiter) Reset(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	return ret.Error(0)
}

// NewAttemptLimiter creates a new instance of AttemptLimiter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAttemptLimiter(t interface {
	mock.TestingT
	Cleanup(func())
}) *AttemptLimiter {
	m := &AttemptLimiter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
