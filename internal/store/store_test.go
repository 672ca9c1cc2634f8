package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millukiapp/milluki-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestEntity_CreateGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{ID: "user-1", Name: "Ana", Email: "ana@x.com", PasswordHash: "h"}
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)
	assert.Equal(t, "Ana", got.Name)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users.Get(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := &domain.Book{ID: "book-1", Title: "Dune"}
	require.NoError(t, s.Books.Create(ctx, book.ID, book))

	err := s.Books.Create(ctx, book.ID, book)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_UniqueEmailIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := &domain.User{ID: "user-1", Email: "dup@x.com"}
	require.NoError(t, s.Users.Create(ctx, u1.ID, u1))

	// Same email under a different ID violates the unique index.
	u2 := &domain.User{ID: "user-2", Email: "dup@x.com"}
	err := s.Users.Create(ctx, u2.ID, u2)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Case-insensitive: DUP@X.COM is the same address.
	u3 := &domain.User{ID: "user-3", Email: "DUP@X.COM"}
	err = s.Users.Create(ctx, u3.ID, u3)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_GetByIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{ID: "user-1", Email: "ana@x.com"}
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	got, err := s.Users.GetByIndex(ctx, "email", "ANA@x.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = s.Users.GetByIndex(ctx, "email", "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := &domain.Collection{ID: "coll-1", Name: "old", Owner: "a@x.com", IsPublic: true}
	require.NoError(t, s.Collections.Create(ctx, coll.ID, coll))

	coll.Name = "new"
	coll.IsPublic = false
	require.NoError(t, s.Collections.Update(ctx, coll.ID, coll))

	got, err := s.Collections.Get(ctx, "coll-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.False(t, got.IsPublic)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Collections.Update(context.Background(), "coll-missing", &domain.Collection{ID: "coll-missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Update_ReindexesEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{ID: "user-1", Email: "old@x.com"}
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	u.Email = "new@x.com"
	require.NoError(t, s.Users.Update(ctx, u.ID, u))

	_, err := s.Users.GetByIndex(ctx, "email", "old@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Users.GetByIndex(ctx, "email", "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := &domain.Genre{ID: "genre-1", Name: "fantasy"}
	require.NoError(t, s.Genres.Create(ctx, g.ID, g))
	require.NoError(t, s.Genres.Delete(ctx, g.ID))

	_, err := s.Genres.Get(ctx, "genre-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index entry is gone too; the name is reusable.
	require.NoError(t, s.Genres.Create(ctx, "genre-2", &domain.Genre{ID: "genre-2", Name: "fantasy"}))

	// Deleting an absent entity is idempotent.
	assert.NoError(t, s.Genres.Delete(ctx, "genre-1"))
}

func TestEntity_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"book-1", "book-2", "book-3"} {
		require.NoError(t, s.Books.Create(ctx, id, &domain.Book{ID: id, Title: "t-" + id}))
	}

	var count int
	for book, err := range s.Books.List(ctx) {
		require.NoError(t, err)
		require.NotNil(t, book)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestEntity_List_SkipsIndexKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", &domain.User{ID: "user-1", Email: "a@x.com"}))

	var count int
	for u, err := range s.Users.List(ctx) {
		require.NoError(t, err)
		require.NotNil(t, u)
		count++
	}
	assert.Equal(t, 1, count, "index entries must not surface as documents")
}

func TestListCollectionsByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	colls := []*domain.Collection{
		{ID: "coll-1", Name: "c1", Owner: "a@x.com"},
		{ID: "coll-2", Name: "c2", Owner: "b@x.com"},
		{ID: "coll-3", Name: "c3", Owner: "a@x.com"},
	}
	for _, c := range colls {
		require.NoError(t, s.Collections.Create(ctx, c.ID, c))
	}

	got, err := s.ListCollectionsByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "a@x.com", c.Owner)
	}

	got, err = s.ListCollectionsByOwner(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntity_ContextCancellation(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Books.Create(ctx, "book-1", &domain.Book{ID: "book-1"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Books.Get(ctx, "book-1")
	assert.ErrorIs(t, err, context.Canceled)
}
