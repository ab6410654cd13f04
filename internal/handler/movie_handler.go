package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/service"
)

// ContextUserIDKey is the echo context key under which the access guard
// stores the authenticated principal's user id.
const ContextUserIDKey = "userID"

// MovieHandler handles the owner-scoped catalog endpoints.
type MovieHandler struct {
	movieService service.MovieService
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// MovieRequest represents a create or full-update payload. Only the title is
// required; the owner is always taken from the principal, never the body.
type MovieRequest struct {
	Title     string `json:"title" validate:"required"`
	Director  string `json:"director"`
	Year      int    `json:"year"`
	PosterURL string `json:"posterUrl"`
}

// RatingRequest represents a rating mutation. The pointer distinguishes an
// absent rating from a zero one; absent fails like any other invalid value.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// principal returns the authenticated user id attached by the access guard.
func principal(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(ContextUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid or expired token",
			Code:  "INVALID_TOKEN",
		})
	}
	return id, nil
}

// movieID parses the path id. An unparseable id is indistinguishable from a
// missing record, matching the no-existence-leak contract.
func movieID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMovieNotFound)
		return uuid.Nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return id, nil
}

// List godoc
// @Summary List the caller's movies, newest first
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Movie
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}

	movies, err := h.movieService.List(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, movies)
}

// Get godoc
// @Summary Get one movie by id
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}
	id, err := movieID(c)
	if err != nil {
		return err
	}

	movie, err := h.movieService.Get(c.Request().Context(), ownerID, id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, movie)
}

// Create godoc
// @Summary Add a movie to the caller's catalog
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MovieRequest true "Movie data"
// @Success 201 {object} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidMovieData)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err := c.Validate(&req); err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidMovieData)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	movie, err := h.movieService.Create(c.Request().Context(), ownerID, service.MovieInput{
		Title:     req.Title,
		Director:  req.Director,
		Year:      req.Year,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, movie)
}

// Update godoc
// @Summary Replace a movie's editable fields
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body MovieRequest true "Movie data"
// @Success 200 {object} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}
	id, err := movieID(c)
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidMovieData)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err := c.Validate(&req); err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidMovieData)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	movie, err := h.movieService.Update(c.Request().Context(), ownerID, id, service.MovieInput{
		Title:     req.Title,
		Director:  req.Director,
		Year:      req.Year,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, movie)
}

// Delete godoc
// @Summary Remove a movie from the caller's catalog
// @Tags movies
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}
	id, err := movieID(c)
	if err != nil {
		return err
	}

	if err := h.movieService.Delete(c.Request().Context(), ownerID, id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleFavorite godoc
// @Summary Flip a movie's favorite flag
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id}/favorite [patch]
func (h *MovieHandler) ToggleFavorite(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}
	id, err := movieID(c)
	if err != nil {
		return err
	}

	movie, err := h.movieService.ToggleFavorite(c.Request().Context(), ownerID, id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, movie)
}

// SetRating godoc
// @Summary Set a movie's rating (0-5)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body RatingRequest true "Rating"
// @Success 200 {object} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id}/rating [patch]
func (h *MovieHandler) SetRating(c echo.Context) error {
	ownerID, err := principal(c)
	if err != nil {
		return err
	}
	id, err := movieID(c)
	if err != nil {
		return err
	}

	// Absent, non-numeric, fractional and out-of-range ratings all collapse
	// to the same response.
	var req RatingRequest
	if err := c.Bind(&req); err != nil || req.Rating == nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidRating)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	movie, err := h.movieService.SetRating(c.Request().Context(), ownerID, id, *req.Rating)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, movie)
}
