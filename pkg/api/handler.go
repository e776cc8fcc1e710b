// Package api implements the users, categories and blogs HTTP handlers.
//
// Every handler follows the same pipeline: identifiers and body are validated
// first, then the store gateway is connected, then referenced documents are
// checked one by one, and finally a single read or write is issued. A failed
// step ends the request; nothing after it touches the store.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/middleware"
	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/repository"
	"github.com/nimburion/blogapi/pkg/server/router"
	"github.com/nimburion/blogapi/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deps are the collaborators a Handler needs.
type Deps struct {
	Gateway    store.Gateway
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Blogs      repository.BlogRepository
	Logger     logger.Logger
	// Paging bounds GET /api/blogs. Zero values fall back to 10 and 100.
	Paging config.BlogsConfig
}

// Handler serves the /api routes.
type Handler struct {
	gateway    store.Gateway
	users      repository.UserRepository
	categories repository.CategoryRepository
	blogs      repository.BlogRepository
	log        logger.Logger
	paging     config.BlogsConfig
}

// NewHandler validates deps and returns a Handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Gateway == nil {
		return nil, errors.New("api: store gateway is required")
	}
	if deps.Users == nil || deps.Categories == nil || deps.Blogs == nil {
		return nil, errors.New("api: users, categories and blogs repositories are required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Paging.DefaultPageSize <= 0 {
		deps.Paging.DefaultPageSize = 10
	}
	if deps.Paging.MaxPageSize <= 0 {
		deps.Paging.MaxPageSize = 100
	}
	if deps.Paging.DefaultPageSize > deps.Paging.MaxPageSize {
		deps.Paging.DefaultPageSize = deps.Paging.MaxPageSize
	}
	return &Handler{
		gateway:    deps.Gateway,
		users:      deps.Users,
		categories: deps.Categories,
		blogs:      deps.Blogs,
		log:        deps.Logger.With("component", "api"),
		paging:     deps.Paging,
	}, nil
}

// Register mounts every route under /api on r.
func (h *Handler) Register(r router.Router) {
	api := r.Group("/api")

	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)
	api.PATCH("/users", h.UpdateUser)
	api.DELETE("/users", h.DeleteUser)

	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.CreateCategory)
	api.PATCH("/categories/:categoryId", h.UpdateCategory)
	api.DELETE("/categories/:categoryId", h.DeleteCategory)

	api.GET("/blogs", h.ListBlogs)
	api.POST("/blogs", h.CreateBlog)
	api.GET("/blogs/:blogId", h.GetBlog)
	api.PATCH("/blogs/:blogId", h.UpdateBlog)
	api.DELETE("/blogs/:blogId", h.DeleteBlog)
}

// connect makes sure the gateway holds a live connection.
func (h *Handler) connect(ctx context.Context) error {
	if err := h.gateway.EnsureConnected(ctx); err != nil {
		return controller.Internal("Error connecting to database", err)
	}
	return nil
}

// requireUser is the first link of every existence chain.
func (h *Handler) requireUser(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	return controller.Require(ctx, "User", func(ctx context.Context) (*model.User, error) {
		return h.users.FindByID(ctx, userID)
	})
}

// requireCategory checks the category exists, regardless of owner.
func (h *Handler) requireCategory(ctx context.Context, categoryID primitive.ObjectID) (*model.Category, error) {
	return controller.Require(ctx, "Category", func(ctx context.Context) (*model.Category, error) {
		return h.categories.FindByID(ctx, categoryID)
	})
}

// fail writes err as the response. Server-side failures are logged with the
// request id; client errors are not.
func (h *Handler) fail(c router.Context, err error) error {
	status, _ := controller.MapError(c.Request().Context(), err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"request_id", middleware.RequestID(c.Request().Context()),
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}
	return controller.Error(c, err)
}

// writeErr maps the outcome of an id-scoped write: ErrNotFound becomes a 404
// "<name> not found", anything else a 500 prefixed with action.
func writeErr(name, action string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return controller.NewNotFoundError(name + " not found")
	}
	return controller.Internal(action, err)
}
