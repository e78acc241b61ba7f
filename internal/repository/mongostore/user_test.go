package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dtroode/roleauth/internal/model"
)

func TestDocumentMapping(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	u := model.User{
		ID:           uuid.New(),
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := toDocument(u)
	assert.Equal(t, u.ID.String(), doc.ID)
	assert.Equal(t, "admin", doc.Role)

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.Equal(t, u, back)
}

func TestDocumentMapping_BadID(t *testing.T) {
	_, err := userDocument{ID: "not-a-uuid"}.toModel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad user id")
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	dupErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}

	tests := []struct {
		name      string
		err       error
		wantErrIs error
		wantCode  string
	}{
		{name: "nil", err: nil},
		{name: "no documents", err: mongo.ErrNoDocuments, wantErrIs: model.ErrNotFound},
		{name: "duplicate key", err: dupErr, wantErrIs: model.ErrDuplicateEmail},
		{name: "other", err: errors.New("server selection timeout"), wantCode: "MONGO_QUERY_FAILED"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := wrapError(tt.err, "op")
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, got, tt.wantErrIs)
			default:
				oopsErr, ok := oops.AsOops(got)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, oopsErr.Code())
				assert.Equal(t, "users", oopsErr.Context()["collection"])
			}
		})
	}
}
