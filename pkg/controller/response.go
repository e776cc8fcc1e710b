package controller

import (
	"net/http"

	"github.com/nimburion/blogapi/pkg/server/router"
)

// Success sends data as JSON with HTTP 200 OK.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created sends data as JSON with HTTP 201 Created.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// Error sends an error response with the status chosen by MapError.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
