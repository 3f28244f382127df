// Package posts, as part of the blog post module.
// This file contains the business logic for post operations, most of it the
// ownership enforcement on mutations: the author snapshot is compared
// against the caller identity on every update and delete, freshly read from
// the store rather than cached.
package posts

import (
	"context"
	"time"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/auth"
)

// PostService defines the post operations exposed to the HTTP layer.
// Reads are public; Create requires any authenticated caller; Update and
// Delete additionally require the caller to be the post's author.
type PostService interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, caller *auth.User, req PostRequest) (*Post, error)
	Update(ctx context.Context, caller *auth.User, id string, req PostRequest) (*Post, error)
	Delete(ctx context.Context, caller *auth.User, id string) error
}

type postServiceImpl struct {
	store PostStore
}

// NewPostService creates a new PostService.
func NewPostService(store PostStore) PostService {
	return &postServiceImpl{store: store}
}

// List returns all posts.
func (s *postServiceImpl) List(ctx context.Context) ([]Post, error) {
	return s.store.List(ctx)
}

// Get returns a single post by id.
func (s *postServiceImpl) Get(ctx context.Context, id string) (*Post, error) {
	return s.store.Get(ctx, id)
}

// Create persists a new post. The author snapshot is taken from the
// caller's identity at this instant; both timestamps are set to now.
func (s *postServiceImpl) Create(ctx context.Context, caller *auth.User, req PostRequest) (*Post, error) {
	now := time.Now()
	post := &Post{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Author: Author{
			Username: caller.Username,
			Email:    caller.Email,
			FullName: caller.FullName,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// checkOwnership reads the post and verifies the caller is its author.
// The read is fresh on every call; ownership is never cached across
// requests.
func (s *postServiceImpl) checkOwnership(ctx context.Context, caller *auth.User, id string) (*Post, error) {
	post, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author.Username != caller.Username {
		return nil, apperror.NewUnauthorizedError("you don't have access to perform this action", nil)
	}
	return post, nil
}

// Update replaces the mutable fields of a post the caller authored and
// refreshes the updated timestamp. The author field is left untouched. The
// read-check-write sequence is not fenced: if a concurrent delete wins
// between the ownership check and the write, the store reports not-found
// and this call returns it.
func (s *postServiceImpl) Update(ctx context.Context, caller *auth.User, id string, req PostRequest) (*Post, error) {
	if _, err := s.checkOwnership(ctx, caller, id); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		UpdatedAt:   time.Now(),
	})
}

// Delete removes a post the caller authored.
func (s *postServiceImpl) Delete(ctx context.Context, caller *auth.User, id string) error {
	if _, err := s.checkOwnership(ctx, caller, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
