package api

import (
	"github.com/nimburion/blogapi/pkg/controller"
	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(c router.Context) error {
	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	users, err := h.users.List(ctx)
	if err != nil {
		return h.fail(c, controller.Internal("Error fetching users", err))
	}
	return controller.Success(c, users)
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(c router.Context) error {
	var req CreateUserRequest
	if err := controller.BindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	user := &model.User{Username: req.Username, Email: req.Email}
	if err := h.users.Create(ctx, user); err != nil {
		return h.fail(c, controller.Internal("Error in creating new user", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message": "New User is created!",
		"user":    user,
	})
}

// UpdateUser handles PATCH /api/users. The user id travels in the body.
func (h *Handler) UpdateUser(c router.Context) error {
	var req UpdateUserRequest
	if err := controller.BindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	userID, err := controller.ParseObjectID("userId", req.UserID)
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	user, err := h.users.UpdateUsername(ctx, userID, req.NewUsername)
	if err != nil {
		return h.fail(c, writeErr("User", "Error in updating user", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message": "User is updated",
		"user":    user,
	})
}

// DeleteUser handles DELETE /api/users?userId=. Categories and blogs of the
// user are left in place.
func (h *Handler) DeleteUser(c router.Context) error {
	userID, err := controller.ParseObjectID("userId", c.Query("userId"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	if err := h.connect(ctx); err != nil {
		return h.fail(c, err)
	}
	if err := h.users.Delete(ctx, userID); err != nil {
		return h.fail(c, writeErr("User", "Error in deleting user", err))
	}
	return controller.Success(c, map[string]interface{}{
		"message": "User is successfully deleted.",
		"user":    userID.Hex(),
	})
}
