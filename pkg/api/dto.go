package api

import (
	"errors"

	"github.com/nimburion/blogapi/pkg/repository"
)

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateUserRequest is the body of PATCH /api/users.
type UpdateUserRequest struct {
	UserID      string `json:"userId" validate:"required"`
	NewUsername string `json:"newUsername" validate:"required"`
}

// CategoryRequest is the body of POST and PATCH on categories.
type CategoryRequest struct {
	Title string `json:"title" validate:"required"`
}

// CreateBlogRequest is the body of POST /api/blogs.
type CreateBlogRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateBlogRequest is the body of PATCH /api/blogs/:blogId. Absent fields are
// left untouched; a present title must not be empty.
type UpdateBlogRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

// Validate requires at least one field.
func (r *UpdateBlogRequest) Validate() error {
	if r.Title == nil && r.Description == nil {
		return errors.New("title or description is required")
	}
	return nil
}

// Patch converts the request into a repository patch.
func (r *UpdateBlogRequest) Patch() repository.BlogPatch {
	return repository.BlogPatch{Title: r.Title, Description: r.Description}
}
