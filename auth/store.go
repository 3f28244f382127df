// Package auth, as part of the authentication module.
// This file defines the UserStore abstraction over the `users` collection
// and its MongoDB implementation. The service layer depends only on the
// interface, which keeps the credential logic testable against an
// in-memory fake.
package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/db"
)

// UserStore is the storage contract for user records. FindByUsername
// returns a NotFoundError when no user matches; Insert assigns the
// store-generated identifier to the passed user.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Insert(ctx context.Context, user *User) error
}

// mongoUserStore implements UserStore on top of a MongoDB collection.
type mongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a UserStore backed by the `users` collection.
func NewMongoUserStore(database *mongo.Database) UserStore {
	return &mongoUserStore{collection: database.Collection(db.UsersCollection)}
}

// FindByUsername resolves a user by the unique username field.
func (s *mongoUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to find user", err)
	}
	return &user, nil
}

// Insert persists a new user, assigning a fresh ObjectID. A duplicate-key
// failure from the unique username index is reported as a ConflictError, so
// a registration losing the check-then-insert race still surfaces as a
// duplicate username rather than an internal fault.
func (s *mongoUserStore) Insert(ctx context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflictError("username already exists", nil)
		}
		return apperror.NewDatabaseError("failed to create user", err)
	}
	return nil
}
