package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PostID    string             `bson:"postId" json:"postId"`
	Comment   string             `bson:"comment" json:"comment"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// User documents are keyed by email rather than _id: every write is an
// upsert filtered on the email field.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
	LastLogin time.Time          `bson:"lastLogin" json:"lastLogin"`
}

type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PostID    string             `bson:"postId" json:"postId"`
	Title     string             `bson:"title" json:"title"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	User      string             `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type DashboardCounts struct {
	Posts      int64 `json:"posts"`
	Categories int64 `json:"categories"`
	Comments   int64 `json:"comments"`
	Users      int64 `json:"users"`
	Wishlist   int64 `json:"wishlist"`
}
