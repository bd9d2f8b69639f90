// Package mongostore implements the store interfaces over MongoDB using
// the official mongo-go driver. One client is created at startup and is
// safe for concurrent use; every operation is atomic at the
// single-document level only.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kothahq/kotha-server/internal/model"
	"github.com/kothahq/kotha-server/internal/store"
)

const (
	postsCollection      = "posts"
	categoriesCollection = "categories"
	commentsCollection   = "comments"
	usersCollection      = "users"
	wishlistCollection   = "wishlists"
)

type Store struct {
	db *mongo.Database
}

func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s := &Store{db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// The $text operator on the blog listing requires a text index; the
// createdAt index backs the paginated listing sort.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrInvalidID
	}
	return oid, nil
}

func toUpdateResult(res *mongo.UpdateResult) store.UpdateResult {
	out := store.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	} else if res.UpsertedID != nil {
		out.UpsertedID = res.UpsertedID
	}
	return out
}

// Posts

func (s *Store) CreatePost(ctx context.Context, post *model.Post) (string, error) {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if _, err := s.db.Collection(postsCollection).InsertOne(ctx, post); err != nil {
		return "", err
	}
	return post.ID.Hex(), nil
}

func (s *Store) GetPost(ctx context.Context, id string) (model.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Post{}, err
	}
	var post model.Post
	err = s.db.Collection(postsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, store.ErrNotFound
	}
	return post, err
}

func (s *Store) ListPosts(ctx context.Context, opts store.PostListOpts) ([]model.Post, error) {
	page, size := opts.Page, opts.Size
	// Negative skip or limit is a server-side error in mongo; treat
	// negatives as the first page.
	if page < 0 {
		page = 0
	}
	if size < 0 {
		size = 0
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page * size).
		SetLimit(size)
	cur, err := s.db.Collection(postsCollection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) ListPostsByFilter(ctx context.Context, filter store.PostFilter) ([]model.Post, error) {
	query := bson.M{"createdBy": filter.Owner}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	cur, err := s.db.Collection(postsCollection).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error) {
	cur, err := s.db.Collection(postsCollection).Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) ListFeaturedPosts(ctx context.Context, owner string) ([]model.Post, error) {
	pipeline := mongo.Pipeline{}
	if owner != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"createdBy": owner}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.M{
			"descriptionLength": bson.M{"$strLenCP": "$description"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"descriptionLength": -1}}},
	)
	cur, err := s.db.Collection(postsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	return s.updateByID(ctx, postsCollection, id, fields, true)
}

func (s *Store) DeletePost(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteByID(ctx, postsCollection, id)
}

// Categories

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	cur, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	categories := []model.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (model.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Category{}, err
	}
	var category model.Category
	err = s.db.Collection(categoriesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Category{}, store.ErrNotFound
	}
	return category, err
}

func (s *Store) CreateCategory(ctx context.Context, category *model.Category) (string, error) {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if _, err := s.db.Collection(categoriesCollection).InsertOne(ctx, category); err != nil {
		return "", err
	}
	return category.ID.Hex(), nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	return s.updateByID(ctx, categoriesCollection, id, fields, false)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteByID(ctx, categoriesCollection, id)
}

// Comments

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	cur, err := s.db.Collection(commentsCollection).Find(ctx, bson.M{"postId": postID})
	if err != nil {
		return nil, err
	}
	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (model.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Comment{}, err
	}
	var comment model.Comment
	err = s.db.Collection(commentsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Comment{}, store.ErrNotFound
	}
	return comment, err
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (string, error) {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if _, err := s.db.Collection(commentsCollection).InsertOne(ctx, comment); err != nil {
		return "", err
	}
	return comment.ID.Hex(), nil
}

func (s *Store) UpdateComment(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	return s.updateByID(ctx, commentsCollection, id, fields, false)
}

// Users

func (s *Store) UpsertUser(ctx context.Context, email string, fields map[string]any) (store.UpdateResult, error) {
	res, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return store.UpdateResult{}, err
	}
	return toUpdateResult(res), nil
}

// Wishlist

func (s *Store) ListWishlist(ctx context.Context, owner string) ([]model.WishlistItem, error) {
	cur, err := s.db.Collection(wishlistCollection).Find(ctx, bson.M{"user": owner})
	if err != nil {
		return nil, err
	}
	items := []model.WishlistItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) AddWishlistItem(ctx context.Context, item *model.WishlistItem) (string, error) {
	// A fresh id regardless of what the client sent, so replays insert
	// distinct documents.
	item.ID = primitive.NewObjectID()
	if _, err := s.db.Collection(wishlistCollection).InsertOne(ctx, item); err != nil {
		return "", err
	}
	return item.ID.Hex(), nil
}

func (s *Store) DeleteWishlistItem(ctx context.Context, id string) (store.DeleteResult, error) {
	return s.deleteByID(ctx, wishlistCollection, id)
}

// Dashboard

func (s *Store) DashboardCounts(ctx context.Context) (model.DashboardCounts, error) {
	var counts model.DashboardCounts
	var err error
	if counts.Posts, err = s.db.Collection(postsCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return model.DashboardCounts{}, err
	}
	if counts.Categories, err = s.db.Collection(categoriesCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return model.DashboardCounts{}, err
	}
	if counts.Comments, err = s.db.Collection(commentsCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return model.DashboardCounts{}, err
	}
	if counts.Users, err = s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return model.DashboardCounts{}, err
	}
	if counts.Wishlist, err = s.db.Collection(wishlistCollection).CountDocuments(ctx, bson.M{}); err != nil {
		return model.DashboardCounts{}, err
	}
	return counts, nil
}

// Shared helpers

func (s *Store) updateByID(ctx context.Context, collection, id string, fields map[string]any, upsert bool) (store.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.Update().SetUpsert(upsert),
	)
	if err != nil {
		return store.UpdateResult{}, err
	}
	return toUpdateResult(res), nil
}

func (s *Store) deleteByID(ctx context.Context, collection, id string) (store.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return store.DeleteResult{}, err
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
