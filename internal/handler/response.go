package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargoexchange/internal/repository"
	"cargoexchange/internal/service"
)

// Error categories reported alongside the message.
const (
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryConflict   = "conflict"
	CategoryUpstream   = "upstream"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code, category := mapError(err)
	c.JSON(code, ErrorResponse{Error: err.Error(), Category: category})
}

// respondBadRequest sends a validation error with a fixed message.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Category: CategoryValidation})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps service/repository errors to an HTTP status code and category.
func mapError(err error) (int, string) {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, CategoryNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidCargoID),
		errors.Is(err, service.ErrInvalidMatchID),
		errors.Is(err, service.ErrInvalidCargoType),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidVolume),
		errors.Is(err, service.ErrInvalidBudget),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrSameListing),
		errors.Is(err, service.ErrRoutesNotReverse):
		return http.StatusBadRequest, CategoryValidation

	// Conflict errors
	case errors.Is(err, service.ErrListingNotActive),
		errors.Is(err, service.ErrMatchInProgress),
		errors.Is(err, repository.ErrUnexpectedStatus),
		errors.Is(err, repository.ErrDuplicateMatch):
		return http.StatusConflict, CategoryConflict

	// Anything else is a failure of a collaborator
	default:
		return http.StatusInternalServerError, CategoryUpstream
	}
}
