// Package mongostore implements the user store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dtroode/roleauth/internal/model"
)

const colUsers = "users"

// Store holds the client and the database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri, verifies the connection and ensures indexes.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	// The unique email index backs ErrDuplicateEmail, so startup fails without it.
	if err := s.ensureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes failed: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongostore: ping failed: %w", err)
	}
	return nil
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		name   string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{colUsers, "users_email_unique", bson.D{{Key: "email", Value: 1}}, true},
	}

	for _, i := range indexes {
		opts := options.Index().SetName(i.name)
		if i.unique {
			opts.SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: i.keys, Options: opts}); err != nil {
			return fmt.Errorf("create index %s.%s: %w", i.col, i.name, err)
		}
	}

	return nil
}

// wrapError converts driver errors into model errors.
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrDuplicateEmail
	}
	return oops.Code("MONGO_QUERY_FAILED").
		With("collection", colUsers).
		With("op", op).
		Wrap(err)
}
