// Package httpkit provides shared HTTP response helpers.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error payload every endpoint returns. Details carries
// field-level information when the typed error provides it, e.g. which staff
// fields failed validation.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// OK sends a 200 response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 response with the created resource.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError maps domain errors onto HTTP responses and reports whether an
// error was written. Typed *apperr.Error values choose their status via
// Kind; untyped errors fall back to 400.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
