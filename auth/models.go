// Package auth is responsible for handling authentication and authorization
// logic: user registration, credential verification, bearer token issuance
// and validation. This file defines the User entity as stored in the
// `users` collection.
package auth

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents a user in the system. The username is the unique,
// immutable identifier; email and full name are optional display fields.
// The bcrypt hash is excluded from JSON so it can never leak into an API
// response, and `_id` is the store-generated primary key rendered to
// callers as `id`.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	FullName       string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"` // Do not expose hashed password
}

// Public returns the caller-facing view of the user, excluding the
// password hash.
func (u *User) Public() UserResponse {
	return UserResponse{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
