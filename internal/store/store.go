package store

import (
	"context"
	"errors"

	"github.com/kothahq/kotha-server/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
)

// PostListOpts paginates the public post listing. Page is zero-based;
// the store skips Page*Size documents and sorts by creation time
// descending. Negative values are treated as zero. Size has no enforced
// upper bound.
type PostListOpts struct {
	Page int64
	Size int64
}

// PostFilter narrows the owner-scoped blog listing. Owner is always set;
// Category and Search are optional and intersect (boolean AND), Search
// using the store's native text search.
type PostFilter struct {
	Owner    string
	Category string
	Search   string
}

// UpdateResult mirrors the driver's mutation counts; update and delete
// routes return these raw to the caller.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type Store interface {
	PostStore
	CategoryStore
	CommentStore
	UserStore
	WishlistStore
	DashboardCounts(ctx context.Context) (model.DashboardCounts, error)
	Close(ctx context.Context) error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (string, error)
	GetPost(ctx context.Context, id string) (model.Post, error)
	ListPosts(ctx context.Context, opts PostListOpts) ([]model.Post, error)
	ListPostsByFilter(ctx context.Context, filter PostFilter) ([]model.Post, error)
	ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error)
	// ListFeaturedPosts returns posts ordered by the computed character
	// length of their description, longest first. An empty owner means
	// no owner restriction.
	ListFeaturedPosts(ctx context.Context, owner string) ([]model.Post, error)
	UpdatePost(ctx context.Context, id string, fields map[string]any) (UpdateResult, error)
	DeletePost(ctx context.Context, id string) (DeleteResult, error)
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (string, error)
	UpdateCategory(ctx context.Context, id string, fields map[string]any) (UpdateResult, error)
	DeleteCategory(ctx context.Context, id string) (DeleteResult, error)
}

type CommentStore interface {
	ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
	GetComment(ctx context.Context, id string) (model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) (string, error)
	UpdateComment(ctx context.Context, id string, fields map[string]any) (UpdateResult, error)
}

type UserStore interface {
	// UpsertUser sets exactly the given fields on the user keyed by
	// email, inserting the document when absent.
	UpsertUser(ctx context.Context, email string, fields map[string]any) (UpdateResult, error)
}

type WishlistStore interface {
	ListWishlist(ctx context.Context, owner string) ([]model.WishlistItem, error)
	AddWishlistItem(ctx context.Context, item *model.WishlistItem) (string, error)
	DeleteWishlistItem(ctx context.Context, id string) (DeleteResult, error)
}
