package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *APIError
		wantCode Code
		wantMsg  string
	}{
		{name: "email taken", err: NewErrEmailTaken(), wantCode: CodeEmailTaken, wantMsg: "Email already exists"},
		{name: "user not found", err: NewErrUserNotFound(), wantCode: CodeUserNotFound, wantMsg: "User not found"},
		{name: "invalid credentials", err: NewErrInvalidCredentials(), wantCode: CodeInvalidCredentials, wantMsg: "Invalid email or password"},
		{name: "invalid password", err: NewErrInvalidPassword(), wantCode: CodeInvalidCredentials, wantMsg: "Invalid password"},
		{name: "unauthenticated", err: NewErrUnauthenticated(), wantCode: CodeUnauthenticated, wantMsg: "Not authenticated"},
		{name: "validation", err: NewErrValidation("field %s is required", "name"), wantCode: CodeValidationFailed, wantMsg: "field name is required"},
		{name: "forbidden", err: NewErrForbidden("nope"), wantCode: CodeForbidden, wantMsg: "nope"},
		{name: "internal", err: NewErrInternal(), wantCode: CodeInternal, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, string(tt.wantCode), tt.err.Extensions()["code"])
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewErrEmailTaken())

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeEmailTaken, apiErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestHasCode_And_Is(t *testing.T) {
	err := fmt.Errorf("login: %w", NewErrInvalidPassword())

	assert.True(t, HasCode(err, CodeInvalidCredentials))
	assert.False(t, HasCode(err, CodeUserNotFound))
	assert.True(t, errors.Is(err, NewErrInvalidCredentials()))
	assert.False(t, errors.Is(err, NewErrUnauthenticated()))
}
