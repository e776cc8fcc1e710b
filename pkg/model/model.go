// Package model defines the documents stored in the users, categories and blogs collections.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	BlogsCollection      = "blogs"
)

// User is an author. Email is optional.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Category groups blogs and is owned by one user.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Blog is a post owned by a user inside one of their categories.
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Touch stamps both timestamps on a new document, or only UpdatedAt on an existing one.
func Touch(createdAt, updatedAt *time.Time, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
