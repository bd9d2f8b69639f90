// Package memory is an in-memory store implementation used by tests. It
// mirrors the Mongo store's semantics closely enough for the handler
// suite: creation-time ordering, skip/limit pagination, upserts keyed by
// id or email, and the description-length featured ordering. Text search
// is approximated with a case-insensitive substring match.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kothahq/kotha-server/internal/model"
	"github.com/kothahq/kotha-server/internal/store"
)

type Store struct {
	mu         sync.Mutex
	posts      map[string]model.Post
	categories map[string]model.Category
	comments   map[string]model.Comment
	users      map[string]model.User
	wishlist   map[string]model.WishlistItem
}

func New() *Store {
	return &Store{
		posts:      make(map[string]model.Post),
		categories: make(map[string]model.Category),
		comments:   make(map[string]model.Comment),
		users:      make(map[string]model.User),
		wishlist:   make(map[string]model.WishlistItem),
	}
}

func (s *Store) Close(ctx context.Context) error { return nil }

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrInvalidID
	}
	return oid, nil
}

// Posts

func (s *Store) CreatePost(ctx context.Context, post *model.Post) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	s.posts[post.ID.Hex()] = *post
	return post.ID.Hex(), nil
}

func (s *Store) GetPost(ctx context.Context, id string) (model.Post, error) {
	if _, err := parseID(id); err != nil {
		return model.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return model.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context, opts store.PostListOpts) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.postsByCreatedDesc(func(model.Post) bool { return true })
	page, size := opts.Page, opts.Size
	// Page and size are client-controlled; negatives mean the first page.
	if page < 0 {
		page = 0
	}
	if size < 0 {
		size = 0
	}
	skip := page * size
	if skip >= int64(len(all)) {
		return []model.Post{}, nil
	}
	all = all[skip:]
	if size > 0 && int64(len(all)) > size {
		all = all[:size]
	}
	return all, nil
}

func (s *Store) ListPostsByFilter(ctx context.Context, filter store.PostFilter) ([]model.Post, error) {
	search := strings.ToLower(filter.Search)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postsByCreatedDesc(func(p model.Post) bool {
		if p.CreatedBy != filter.Owner {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		return true
	}), nil
}

func (s *Store) ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postsByCreatedDesc(func(p model.Post) bool { return p.Category == category }), nil
}

func (s *Store) ListFeaturedPosts(ctx context.Context, owner string) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Post{}
	for _, p := range s.posts {
		if owner == "" || p.CreatedBy == owner {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len([]rune(out[i].Description)) > len([]rune(out[j].Description))
	})
	return out, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		post = model.Post{ID: oid}
		applyPostFields(&post, fields)
		s.posts[id] = post
		return store.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}
	before := post
	applyPostFields(&post, fields)
	s.posts[id] = post
	res := store.UpdateResult{MatchedCount: 1}
	if post != before {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteFrom(id, func(key string) bool {
		if _, ok := s.posts[key]; !ok {
			return false
		}
		delete(s.posts, key)
		return true
	})
}

func (s *Store) postsByCreatedDesc(keep func(model.Post) bool) []model.Post {
	out := []model.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func applyPostFields(post *model.Post, fields map[string]any) {
	for key, value := range fields {
		str, _ := value.(string)
		switch key {
		case "title":
			post.Title = str
		case "description":
			post.Description = str
		case "category":
			post.Category = str
		case "image":
			post.Image = str
		case "createdBy":
			post.CreatedBy = str
		}
	}
}

// Categories

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Category{}
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (model.Category, error) {
	if _, err := parseID(id); err != nil {
		return model.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok {
		return model.Category{}, store.ErrNotFound
	}
	return category, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *model.Category) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	s.categories[category.ID.Hex()] = *category
	return category.ID.Hex(), nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	if _, err := parseID(id); err != nil {
		return store.UpdateResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok {
		// Plain update, no upsert.
		return store.UpdateResult{}, nil
	}
	before := category
	if name, ok := fields["name"].(string); ok {
		category.Name = name
	}
	s.categories[id] = category
	res := store.UpdateResult{MatchedCount: 1}
	if category != before {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteFrom(id, func(key string) bool {
		if _, ok := s.categories[key]; !ok {
			return false
		}
		delete(s.categories, key)
		return true
	})
}

// Comments

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (model.Comment, error) {
	if _, err := parseID(id); err != nil {
		return model.Comment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return model.Comment{}, store.ErrNotFound
	}
	return comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	s.comments[comment.ID.Hex()] = *comment
	return comment.ID.Hex(), nil
}

func (s *Store) UpdateComment(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	if _, err := parseID(id); err != nil {
		return store.UpdateResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return store.UpdateResult{}, nil
	}
	before := comment
	if text, ok := fields["comment"].(string); ok {
		comment.Comment = text
	}
	s.comments[id] = comment
	res := store.UpdateResult{MatchedCount: 1}
	if comment != before {
		res.ModifiedCount = 1
	}
	return res, nil
}

// Users

func (s *Store) UpsertUser(ctx context.Context, email string, fields map[string]any) (store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	before := user
	for key, value := range fields {
		switch key {
		case "name":
			user.Name, _ = value.(string)
		case "email":
			user.Email, _ = value.(string)
		case "photo":
			user.Photo, _ = value.(string)
		case "role":
			user.Role, _ = value.(string)
		case "lastLogin":
			if t, isTime := value.(time.Time); isTime {
				user.LastLogin = t
			}
		}
	}
	if !ok {
		user.ID = primitive.NewObjectID()
		s.users[email] = user
		return store.UpdateResult{UpsertedCount: 1, UpsertedID: user.ID.Hex()}, nil
	}
	s.users[email] = user
	res := store.UpdateResult{MatchedCount: 1}
	if user != before {
		res.ModifiedCount = 1
	}
	return res, nil
}

// GetUser is a test hook; the HTTP surface never reads users back.
func (s *Store) GetUser(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	return user, ok
}

// Wishlist

func (s *Store) ListWishlist(ctx context.Context, owner string) ([]model.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.WishlistItem{}
	for _, item := range s.wishlist {
		if item.User == owner {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AddWishlistItem(ctx context.Context, item *model.WishlistItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	s.wishlist[item.ID.Hex()] = *item
	return item.ID.Hex(), nil
}

func (s *Store) DeleteWishlistItem(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteFrom(id, func(key string) bool {
		if _, ok := s.wishlist[key]; !ok {
			return false
		}
		delete(s.wishlist, key)
		return true
	})
}

// Dashboard

func (s *Store) DashboardCounts(ctx context.Context) (model.DashboardCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.DashboardCounts{
		Posts:      int64(len(s.posts)),
		Categories: int64(len(s.categories)),
		Comments:   int64(len(s.comments)),
		Users:      int64(len(s.users)),
		Wishlist:   int64(len(s.wishlist)),
	}, nil
}

func (s *Store) deleteFrom(id string, remove func(key string) bool) (store.DeleteResult, error) {
	if _, err := parseID(id); err != nil {
		return store.DeleteResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if remove(id) {
		return store.DeleteResult{DeletedCount: 1}, nil
	}
	return store.DeleteResult{}, nil
}
