// Package posts, as part of the blog post module.
// This file defines the PostStore abstraction over the `posts` collection
// and its MongoDB implementation. The contract mirrors what the document
// store offers: find-many, find-one, insert-one, an atomic
// find-one-and-update returning the post-update document, and delete-one.
package posts

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/db"
)

// PostUpdate carries the mutable fields applied by PostStore.Update. The
// author and created_at fields deliberately have no place here.
type PostUpdate struct {
	Title       string
	Description string
	Content     string
	Tags        []string
	UpdatedAt   time.Time
}

// PostStore is the storage contract for post records. Get, Update and
// Delete return a NotFoundError when the id does not resolve to an
// existing record.
type PostStore interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Insert(ctx context.Context, post *Post) error
	Update(ctx context.Context, id string, update PostUpdate) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// mongoPostStore implements PostStore on top of a MongoDB collection.
type mongoPostStore struct {
	collection *mongo.Collection
}

// NewMongoPostStore creates a PostStore backed by the `posts` collection.
func NewMongoPostStore(database *mongo.Database) PostStore {
	return &mongoPostStore{collection: database.Collection(db.PostsCollection)}
}

// postIDFilter converts an external id into an `_id` filter. A malformed id
// can't resolve to any record, so it is reported the same way as an absent
// one.
func postIDFilter(id string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}
	return bson.M{"_id": objectID}, nil
}

// List returns all posts. The listing is unbounded; there is no pagination
// at this layer.
func (s *mongoPostStore) List(ctx context.Context) ([]Post, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	defer cursor.Close(ctx)

	posts := []Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, apperror.NewDatabaseError("failed to decode posts", err)
	}
	return posts, nil
}

// Get retrieves a single post by id.
func (s *mongoPostStore) Get(ctx context.Context, id string) (*Post, error) {
	filter, err := postIDFilter(id)
	if err != nil {
		return nil, err
	}

	var post Post
	if err := s.collection.FindOne(ctx, filter).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to find post", err)
	}
	return &post, nil
}

// Insert persists a new post, assigning a fresh ObjectID.
func (s *mongoPostStore) Insert(ctx context.Context, post *Post) error {
	post.ID = primitive.NewObjectID()
	if _, err := s.collection.InsertOne(ctx, post); err != nil {
		return apperror.NewDatabaseError("failed to create post", err)
	}
	return nil
}

// Update applies the mutable fields in a single find-one-and-update and
// returns the document as it stands after the update. A concurrent delete
// between the caller's ownership check and this write surfaces here as
// NotFoundError.
func (s *mongoPostStore) Update(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	filter, err := postIDFilter(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":       update.Title,
		"description": update.Description,
		"content":     update.Content,
		"tags":        update.Tags,
		"updated_at":  update.UpdatedAt,
	}

	var post Post
	err = s.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update post", err)
	}
	return &post, nil
}

// Delete removes a post by id.
func (s *mongoPostStore) Delete(ctx context.Context, id string) error {
	filter, err := postIDFilter(id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete post", err)
	}
	if result.DeletedCount == 0 {
		return apperror.NewNotFoundError("post not found", nil)
	}
	return nil
}
