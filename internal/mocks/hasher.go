package mocks

import (
	mock "github.com/stretchr/testify/mock"
)

// Hasher is a mock type for the Hasher type
type Hasher struct {
	mock.Mock
}

// Hash provides a mock function with given fields: password
func (_m *Hasher) Hash(password string) (string, error) {
	ret := _m.Called(password)

	return ret.String(0), ret.Error(1)
}

// Verify provides a mock function with given fields: password, digest
func (_m *Hasher) Verify(password string, digest string) (bool, error) {
	ret := _m.Called(password, digest)

	return ret.Bool(0), ret.Error(1)
}

// NeedsUpgrade provides a mock function with given fields: digest
func (_m *Hasher) NeedsUpgrade(digest string) bool {
	ret := _m.Called(digest)

	return ret.Bool(0)
}

// NewHasher creates a new instance of Hasher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Hasher {
	m := &Hasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
