package api

import (
	"context"

	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// ListBlogs handles GET /api/blogs. The result is always a JSON array.
func (h *Handler) ListBlogs(c router.Context) error {
	query, err := parseBlogQuery(c, h.paging.DefaultPageSize, h.paging.MaxPageSize)
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireUser(ctx, query.User); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireCategory(ctx, query.Category); err != nil {
		return h.fail(c, err)
	}
	blogs, err := h.blogs.Find(ctx, query)
	if err != nil {
		return h.fail(c, controller.Internal("Error fetching blogs", err))
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}
	return controller.Success(c, blogs)
}

// CreateBlog handles POST /api/blogs?userId=&categoryId=. The blog is filed
// under the category id as read back from the store.
func (h *Handler) CreateBlog(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	categoryID, err := controller.ParseObjectID("categoryId", c.Query("categoryId"))
	if err != nil {
		return h.fail(c, err)
	}
	var req CreateBlogRequest
	if err := controller.BindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireUser(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	category, err := h.requireCategory(ctx, categoryID)
	if err != nil {
		return h.fail(c, err)
	}

	blog := &model.Blog{
		Title:       req.Title,
		Description: req.Description,
		User:        userID,
		Category:    category.ID,
	}
	if err := h.blogs.Create(ctx, blog); err != nil {
		return h.fail(c, controller.Internal("Error in creating blog", err))
	}
	return controller.Created(c, map[string]interface{}{
		"message": "Blog is created",
		"blog":    blog,
	})
}

// GetBlog handles GET /api/blogs/:blogId?userId=&categoryId=. The blog must
// belong to both the user and the category.
func (h *Handler) GetBlog(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	categoryID, err := controller.ParseObjectID("categoryId", c.Query("categoryId"))
	if err != nil {
		return h.fail(c, err)
	}
	blogID, err := controller.ParseObjectID("blogId", c.Param("blogId"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireUser(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireCategory(ctx, categoryID); err != nil {
		return h.fail(c, err)
	}
	blog, err := controller.Require(ctx, "Blog", func(ctx context.Context) (*model.Blog, error) {
		return h.blogs.FindOne(ctx, blogID, userID, categoryID)
	})
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, map[string]interface{}{"blog": blog})
}

// UpdateBlog handles PATCH /api/blogs/:blogId?userId=.
func (h *Handler) UpdateBlog(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	blogID, err := controller.ParseObjectID("blogId", c.Param("blogId"))
	if err != nil {
		return h.fail(c, err)
	}
	var req UpdateBlogRequest
	if err := controller.BindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireUser(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	if _, err := controller.Require(ctx, "Blog", func(ctx context.Context) (*model.Blog, error) {
		return h.blogs.FindOwned(ctx, blogID, userID)
	}); err != nil {
		return h.fail(c, err)
	}
	blog, err := h.blogs.Update(ctx, blogID, userID, req.Patch())
	if err != nil {
		return h.fail(c, writeErr("Blog", "Error updating blog", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message": "Blog updated",
		"blog":    blog,
	})
}

// DeleteBlog handles DELETE /api/blogs/:blogId?userId=. The response carries
// the blog as it was before deletion.
func (h *Handler) DeleteBlog(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	blogID, err := controller.ParseObjectID("blogId", c.Param("blogId"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.requireUser(ctx, userID); err != nil {
		return h.fail(c, err)
	}
	blog, err := h.blogs.Delete(ctx, blogID, userID)
	if err != nil {
		return h.fail(c, writeErr("Blog", "Error deleting blog", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message": "Blog is deleted",
		"blog":    blog,
	})
}
