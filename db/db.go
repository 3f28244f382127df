// Package db provides document store connectivity for the blog API.
// It centralizes establishing the MongoDB client, verifying the connection,
// and creating the indexes the application relies on, so the rest of the
// code only deals with collections.
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/config"
)

// Collection names used by the application. The store owns all records;
// the application holds no authoritative in-memory copies.
const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

// Connect establishes a MongoDB client from the provided configuration and
// verifies the connection with a ping. The returned database handle is scoped
// to the configured database name.
func Connect(cfg *config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	// A timeout prevents indefinite blocking if the store is unreachable.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, apperror.NewDatabaseError("failed to connect to document store", err)
	}

	// Verify the connection by pinging before handing the client out.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		// Clean up the half-initialized client on connection failure.
		_ = client.Disconnect(context.Background())
		return nil, nil, apperror.NewDatabaseError("failed to ping document store", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the application depends on. Currently a
// single unique index on users.username, which backs the duplicate-username
// check in registration against concurrent inserts.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, indexModel); err != nil {
		return apperror.NewDatabaseError("failed to create unique index on users.username", err)
	}
	return nil
}

// Disconnect closes the MongoDB client with a bounded shutdown context.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
