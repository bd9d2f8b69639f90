package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kothahq/kotha-server/internal/model"
	"github.com/kothahq/kotha-server/internal/store"
)

func TestListPostsPagination(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		post := model.Post{Title: fmt.Sprintf("p%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		_, err := s.CreatePost(ctx, &post)
		require.NoError(t, err)
	}

	page, err := s.ListPosts(ctx, store.PostListOpts{Page: 1, Size: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "p3", page[0].Title)
	assert.Equal(t, "p1", page[2].Title)

	// Last, partial page.
	page, err = s.ListPosts(ctx, store.PostListOpts{Page: 2, Size: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p0", page[0].Title)

	// Past the end yields an empty slice, not nil.
	page, err = s.ListPosts(ctx, store.PostListOpts{Page: 5, Size: 3})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestListPostsNegativeOpts(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		post := model.Post{Title: fmt.Sprintf("p%d", i), CreatedAt: time.Now()}
		_, err := s.CreatePost(ctx, &post)
		require.NoError(t, err)
	}

	// Negative page behaves like the first page.
	page, err := s.ListPosts(ctx, store.PostListOpts{Page: -1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page, 3)

	page, err = s.ListPosts(ctx, store.PostListOpts{Page: -3, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	// Negative size behaves like no limit.
	page, err = s.ListPosts(ctx, store.PostListOpts{Page: 0, Size: -5})
	require.NoError(t, err)
	assert.Len(t, page, 3)
}

func TestFeaturedOrderByDescriptionLength(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, p := range []model.Post{
		{Title: "mid", Description: strings.Repeat("a", 20), CreatedBy: "a@x"},
		{Title: "top", Description: strings.Repeat("b", 90), CreatedBy: "a@x"},
		{Title: "other", Description: strings.Repeat("c", 999), CreatedBy: "b@x"},
	} {
		post := p
		_, err := s.CreatePost(ctx, &post)
		require.NoError(t, err)
	}

	all, err := s.ListFeaturedPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other", all[0].Title)
	assert.Equal(t, "top", all[1].Title)

	mine, err := s.ListFeaturedPosts(ctx, "a@x")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "top", mine[0].Title)
	assert.Equal(t, "mid", mine[1].Title)
}

func TestUpdatePostUpserts(t *testing.T) {
	s := New()
	ctx := context.Background()

	id := "652f1a2b3c4d5e6f70819203"
	res, err := s.UpdatePost(ctx, id, map[string]any{"title": "from nothing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpsertedCount)
	assert.EqualValues(t, 0, res.MatchedCount)

	post, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "from nothing", post.Title)

	res, err = s.UpdatePost(ctx, id, map[string]any{"title": "renamed"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
	assert.EqualValues(t, 0, res.UpsertedCount)
}

func TestUpdateCategoryNoUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()

	res, err := s.UpdateCategory(ctx, "652f1a2b3c4d5e6f70819203", map[string]any{"name": "ghost"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.MatchedCount)
	assert.EqualValues(t, 0, res.UpsertedCount)

	_, err = s.GetCategory(ctx, "652f1a2b3c4d5e6f70819203")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertUserKeyedByEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	res, err := s.UpsertUser(ctx, "u@x", map[string]any{"name": "U", "email": "u@x", "lastLogin": time.Now()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpsertedCount)

	res, err = s.UpsertUser(ctx, "u@x", map[string]any{"name": "U2", "email": "u@x", "lastLogin": time.Now()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)

	user, ok := s.GetUser("u@x")
	require.True(t, ok)
	assert.Equal(t, "U2", user.Name)
}

func TestAddWishlistItemAssignsFreshID(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := model.WishlistItem{PostID: "p", User: "u@x", CreatedAt: time.Now()}
	id1, err := s.AddWishlistItem(ctx, &first)
	require.NoError(t, err)

	// Reusing the same document, id included, still creates a new record.
	second := first
	id2, err := s.AddWishlistItem(ctx, &second)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	items, err := s.ListWishlist(ctx, "u@x")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDeleteResults(t *testing.T) {
	s := New()
	ctx := context.Background()

	post := model.Post{Title: "p", CreatedAt: time.Now()}
	id, err := s.CreatePost(ctx, &post)
	require.NoError(t, err)

	res, err := s.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DeletedCount)

	res, err = s.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.DeletedCount)

	_, err = s.DeletePost(ctx, "not-hex")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestFilterIntersection(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, p := range []model.Post{
		{Title: "Go routines", Description: "concurrency", Category: "tech", CreatedBy: "a@x"},
		{Title: "Go gardening", Description: "plants", Category: "life", CreatedBy: "a@x"},
		{Title: "Go routines", Description: "concurrency", Category: "tech", CreatedBy: "b@x"},
	} {
		post := p
		post.CreatedAt = time.Now()
		_, err := s.CreatePost(ctx, &post)
		require.NoError(t, err)
	}

	got, err := s.ListPostsByFilter(ctx, store.PostFilter{Owner: "a@x", Category: "tech", Search: "routines"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@x", got[0].CreatedBy)
	assert.Equal(t, "tech", got[0].Category)
}
