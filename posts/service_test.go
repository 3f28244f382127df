package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/auth"
	"github.com/user/blogapi-go/config"
)

// -------- test fakes --------

type fakePostStore struct {
	posts map[string]*Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[string]*Post{}}
}

func (f *fakePostStore) List(ctx context.Context) ([]Post, error) {
	all := []Post{}
	for _, p := range f.posts {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakePostStore) Get(ctx context.Context, id string) (*Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}
	clone := *p
	return &clone, nil
}

func (f *fakePostStore) Insert(ctx context.Context, post *Post) error {
	post.ID = primitive.NewObjectID()
	clone := *post
	f.posts[post.ID.Hex()] = &clone
	return nil
}

func (f *fakePostStore) Update(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}
	p.Title = update.Title
	p.Description = update.Description
	p.Content = update.Content
	p.Tags = update.Tags
	p.UpdatedAt = update.UpdatedAt
	clone := *p
	return &clone, nil
}

func (f *fakePostStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NewNotFoundError("post not found", nil)
	}
	delete(f.posts, id)
	return nil
}

// deleteBetweenCheckAndWriteStore simulates a concurrent delete winning the
// race between the ownership check's read and the update's write.
type deleteBetweenCheckAndWriteStore struct {
	*fakePostStore
}

func (s *deleteBetweenCheckAndWriteStore) Update(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	delete(s.posts, id)
	return s.fakePostStore.Update(ctx, id, update)
}

// fakeUserStore lets the scenario test run a real AuthService without a
// document store.
type fakeUserStore struct {
	users map[string]*auth.User
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Insert(ctx context.Context, user *auth.User) error {
	if _, exists := f.users[user.Username]; exists {
		return apperror.NewConflictError("username already exists", nil)
	}
	user.ID = primitive.NewObjectID()
	clone := *user
	f.users[user.Username] = &clone
	return nil
}

func alice() *auth.User {
	return &auth.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice A.",
	}
}

func bob() *auth.User {
	return &auth.User{
		ID:       primitive.NewObjectID(),
		Username: "bob",
	}
}

// -------- tests --------

func TestCreateGetRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	req := PostRequest{
		Title:       "T",
		Description: "a description",
		Content:     "C",
		Tags:        []string{"go", "blogging"},
	}

	created, err := svc.Create(context.Background(), alice(), req)
	require.NoError(t, err)
	require.False(t, created.ID.IsZero(), "expected store-generated id")

	got, err := svc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, req.Description, got.Description)
	assert.Equal(t, req.Content, got.Content)
	assert.Equal(t, req.Tags, got.Tags)
	assert.Equal(t, "alice", got.Author.Username)
	assert.Equal(t, "alice@example.com", got.Author.Email)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt), "updated_at must be >= created_at")
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_AuthorSucceeds(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	author := alice()
	created, err := svc.Create(context.Background(), author, PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), author, created.ID.Hex(), PostRequest{
		Title:   "T2",
		Content: "C2",
	})
	require.NoError(t, err)

	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "C2", updated.Content)
	// The author snapshot is never re-derived on update.
	assert.Equal(t, "alice", updated.Author.Username)
	assert.Equal(t, "alice@example.com", updated.Author.Email)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdate_NonAuthorForbidden(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	created, err := svc.Create(context.Background(), alice(), PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), bob(), created.ID.Hex(), PostRequest{Title: "X", Content: "Y"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err), "non-author update must be forbidden, got %v", err)

	// The post is untouched.
	got, err := svc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestUpdate_Missing(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	_, err := svc.Update(context.Background(), alice(), primitive.NewObjectID().Hex(), PostRequest{Title: "T", Content: "C"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_RaceLosesToConcurrentDelete(t *testing.T) {
	t.Parallel()

	store := &deleteBetweenCheckAndWriteStore{fakePostStore: newFakePostStore()}
	svc := NewPostService(store)
	author := alice()
	created, err := svc.Create(context.Background(), author, PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	// The ownership check's read succeeds, then the write finds nothing.
	// The accepted outcome is not-found, never a partial write.
	_, err = svc.Update(context.Background(), author, created.ID.Hex(), PostRequest{Title: "T2", Content: "C2"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_NonAuthorForbidden(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	created, err := svc.Create(context.Background(), alice(), PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), bob(), created.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err))
}

func TestDelete_AuthorSucceeds(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	author := alice()
	created, err := svc.Create(context.Background(), author, PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), author, created.ID.Hex()))

	_, err = svc.Get(context.Background(), created.ID.Hex())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_Missing(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	err := svc.Delete(context.Background(), alice(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newFakePostStore())
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.Create(context.Background(), alice(), PostRequest{Title: "T1", Content: "C1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob(), PostRequest{Title: "T2", Content: "C2"})
	require.NoError(t, err)

	all, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// TestScenario_RegisterLoginCreateUpdate walks the full flow: alice
// registers and logs in, creates a post, and bob — also fully
// authenticated — is refused when trying to update it.
func TestScenario_RegisterLoginCreateUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	authSvc := auth.NewAuthService(&fakeUserStore{users: map[string]*auth.User{}}, config.AuthConfig{
		JWTSecret:        "scenario-secret",
		SigningAlgorithm: "HS256",
		TokenDuration:    time.Hour,
	})
	postSvc := NewPostService(newFakePostStore())

	_, err := authSvc.Register(ctx, auth.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	_, err = authSvc.Register(ctx, auth.RegisterRequest{Username: "bob", Password: "pw2"})
	require.NoError(t, err)

	// alice logs in and acts through her validated token identity.
	_, err = authSvc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	aliceToken, err := authSvc.IssueToken("alice")
	require.NoError(t, err)
	aliceUser, err := authSvc.ValidateToken(ctx, aliceToken)
	require.NoError(t, err)

	created, err := postSvc.Create(ctx, aliceUser, PostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	got, err := postSvc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)

	// bob logs in and tries to update alice's post.
	bobToken, err := authSvc.IssueToken("bob")
	require.NoError(t, err)
	bobUser, err := authSvc.ValidateToken(ctx, bobToken)
	require.NoError(t, err)

	_, err = postSvc.Update(ctx, bobUser, created.ID.Hex(), PostRequest{Title: "hijacked", Content: "X"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err))
}
