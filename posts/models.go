// Package posts implements blog post storage and the access-control rules
// around it: anyone can read posts, any authenticated user can create one,
// and only a post's author can update or delete it.
// This file defines the Post entity as stored in the `posts` collection.
package posts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the identity snapshot embedded in a post at creation time.
// It is a deliberate denormalization for display purposes, copied from the
// caller's user record once and never re-joined against the users
// collection. The username inside it is what ownership checks compare
// against.
type Author struct {
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	FullName string `bson:"full_name,omitempty" json:"full_name,omitempty"`
}

// Post represents a blog post. The `_id` is the store-generated primary
// key, rendered to callers as `id`. The author field is immutable after
// creation: updates never re-derive it.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Content     string             `bson:"content" json:"content"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Author      Author             `bson:"author" json:"author"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
