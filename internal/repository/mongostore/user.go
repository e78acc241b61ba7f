package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/roleauth/internal/model"
)

var _ model.UserStore = (*Store)(nil)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toDocument(u model.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDocument) toModel() (model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("mongostore: bad user id %q: %w", d.ID, err)
	}
	return model.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         model.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.D, op string) (model.User, error) {
	var doc userDocument
	if err := s.col(colUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		return model.User{}, wrapError(err, op)
	}
	return doc.toModel()
}

func (s *Store) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}}, "get_by_email")
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "get_by_id")
}

func (s *Store) Create(ctx context.Context, user model.User) (model.User, error) {
	doc := toDocument(user)
	if _, err := s.col(colUsers).InsertOne(ctx, doc); err != nil {
		return model.User{}, wrapError(err, "create")
	}
	return doc.toModel()
}

func (s *Store) Save(ctx context.Context, user model.User) (model.User, error) {
	doc := toDocument(user)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "email", Value: doc.Email},
		{Key: "password_hash", Value: doc.PasswordHash},
		{Key: "role", Value: doc.Role},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved userDocument
	err := s.col(colUsers).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: doc.ID}}, update, opts).
		Decode(&saved)
	if err != nil {
		return model.User{}, wrapError(err, "save")
	}

	return saved.toModel()
}
