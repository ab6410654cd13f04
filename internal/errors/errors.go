package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredentials is returned when email or password is absent.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned for any login failure. Unknown email
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMovieNotFound is returned when a movie is absent or owned by another
	// user. The two cases are deliberately indistinguishable.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrInvalidRating is returned for any rating outside the integers 0..5.
	ErrInvalidRating = errors.New("rating must be an integer between 0 and 5")
	// ErrInvalidMovieData is returned when a create/update payload is rejected.
	ErrInvalidMovieData = errors.New("invalid movie data")
)

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

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unclassified
// becomes a generic 500 so store internals never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_CREDENTIALS")
	case errors.Is(err, ErrEmailTaken):
		// 400 rather than 409, per the API contract.
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMovieNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MOVIE_NOT_FOUND")
	case errors.Is(err, ErrInvalidRating):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RATING")
	case errors.Is(err, ErrInvalidMovieData):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_MOVIE_DATA")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
