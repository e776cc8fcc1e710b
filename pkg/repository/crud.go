// Package repository defines the persistence contracts for users, categories and blogs.
package repository

import (
	"context"
	"errors"
	"math"

	"github.com/nimburion/blogapi/pkg/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no document matches a lookup.
var ErrNotFound = errors.New("document not found")

// UserRepository persists users.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// UpdateUsername returns the user as stored after the update.
	UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository persists categories. Ownership-scoped methods match
// both the category id and the owning user id.
type CategoryRepository interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	UpdateTitle(ctx context.Context, id, userID primitive.ObjectID, title string) (*model.Category, error)
	// Delete removes the category and returns the document as it was.
	Delete(ctx context.Context, id, userID primitive.ObjectID) (*model.Category, error)
}

// BlogPatch carries the fields a blog update may change. Nil fields are left untouched.
type BlogPatch struct {
	Title       *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// BlogRepository persists blogs.
type BlogRepository interface {
	Find(ctx context.Context, query BlogQuery) ([]model.Blog, error)
	// FindOne matches id, owner and category together.
	FindOne(ctx context.Context, id, userID, categoryID primitive.ObjectID) (*model.Blog, error)
	// FindOwned matches id and owner.
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*model.Blog, error)
	Create(ctx context.Context, blog *model.Blog) error
	Update(ctx context.Context, id, userID primitive.ObjectID, patch BlogPatch) (*model.Blog, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) (*model.Blog, error)
}

// Pagination specifies page-based pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// Offset calculates the number of records to skip. It saturates at
// math.MaxInt instead of overflowing, so a huge page is simply past the end.
func (p Pagination) Offset() int {
	if p.Page <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size
func (p Pagination) Limit() int {
	return p.PageSize
}
