package api

import (
	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// ListCategories handles GET /api/categories?userId=.
func (h *Handler) ListCategories(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
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
	categories, err := h.categories.ListByUser(ctx, userID)
	if err != nil {
		return h.fail(c, controller.Internal("Error in fetching categories", err))
	}
	return controller.Success(c, categories)
}

// CreateCategory handles POST /api/categories?userId=.
func (h *Handler) CreateCategory(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	var req CategoryRequest
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
	category := &model.Category{Title: req.Title, User: userID}
	if err := h.categories.Create(ctx, category); err != nil {
		return h.fail(c, controller.Internal("Error in creating category", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message":  "New Category is created.",
		"category": category,
	})
}

// UpdateCategory handles PATCH /api/categories/:categoryId?userId=. Only the
// owner can rename a category.
func (h *Handler) UpdateCategory(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	categoryID, err := controller.ParseObjectID("categoryId", c.Param("categoryId"))
	if err != nil {
		return h.fail(c, err)
	}
	var req CategoryRequest
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
	category, err := h.categories.UpdateTitle(ctx, categoryID, userID, req.Title)
	if err != nil {
		return h.fail(c, writeErr("Category", "Error in updating category", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message":  "Category is updated",
		"category": category,
	})
}

// DeleteCategory handles DELETE /api/categories/:categoryId?userId=. Blogs in
// the category are left in place.
func (h *Handler) DeleteCategory(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	categoryID, err := controller.ParseObjectID("categoryId", c.Param("categoryId"))
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
	category, err := h.categories.Delete(ctx, categoryID, userID)
	if err != nil {
		return h.fail(c, writeErr("Category", "Error in deleting category", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message":  "Category is deleted",
		"category": category,
	})
}
