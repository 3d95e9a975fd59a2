package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when an operation requires a signed-in user.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrTreeNotFound is returned when a referenced tree does not exist.
	ErrTreeNotFound = errors.New("tree not found")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSpeciesRequired is returned when a submission carries no usable species id.
	ErrSpeciesRequired = errors.New("tree species is required")
	// ErrInvalidSpecies is returned when the species id does not parse.
	ErrInvalidSpecies = errors.New("invalid species selection")
	// ErrInvalidReason is returned when the planting reason id does not parse.
	ErrInvalidReason = errors.New("invalid planting reason selection")
	// ErrInvalidCoordinates is returned when lat/lng fall outside geographic ranges.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// ValidationError is a field-level input error surfaced to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var fieldErr *ValidationError
	if errors.As(err, &fieldErr) {
		return NewHTTPError(http.StatusBadRequest, fieldErr.Error(), "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrTreeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TREE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrSpeciesRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SPECIES_REQUIRED")
	case errors.Is(err, ErrInvalidSpecies):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SPECIES")
	case errors.Is(err, ErrInvalidReason):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_REASON")
	case errors.Is(err, ErrInvalidCoordinates):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_COORDINATES")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
