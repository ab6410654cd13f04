package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filmoteca/internal/cache"
	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

const movieCacheTTL = 5 * time.Minute

// MovieInput carries the user-supplied fields of a create or full update.
// The owner is never part of the input; it always comes from the principal.
type MovieInput struct {
	Title     string
	Director  string
	Year      int
	PosterURL string
}

// MovieService exposes the owner-scoped catalog operations. Every method
// takes the authenticated principal explicitly; there is no ambient state.
type MovieService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Movie, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Movie, error)
	Create(ctx context.Context, ownerID uuid.UUID, input MovieInput) (*model.Movie, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input MovieInput) (*model.Movie, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, ownerID, id uuid.UUID) (*model.Movie, error)
	SetRating(ctx context.Context, ownerID, id uuid.UUID, rating int) (*model.Movie, error)
}

type movieService struct {
	movies repository.MovieRepository
	cache  *cache.Client
}

// NewMovieService builds a MovieService with repository and cache.
func NewMovieService(movies repository.MovieRepository, cache *cache.Client) MovieService {
	return &movieService{movies: movies, cache: cache}
}

func (s *movieService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Movie, error) {
	return s.movies.ListByOwner(ctx, ownerID)
}

func (s *movieService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Movie, error) {
	if data, _ := s.cache.Get(ctx, cache.MovieKey(ownerID, id)); data != nil {
		var cached model.Movie
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	movie, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(movie); err == nil {
		_ = s.cache.Set(ctx, cache.MovieKey(ownerID, id), payload, movieCacheTTL)
	}
	return movie, nil
}

func (s *movieService) Create(ctx context.Context, ownerID uuid.UUID, input MovieInput) (*model.Movie, error) {
	movie := &model.Movie{
		Title:     input.Title,
		Director:  input.Director,
		Year:      input.Year,
		PosterURL: input.PosterURL,
		OwnerID:   ownerID,
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

func (s *movieService) Update(ctx context.Context, ownerID, id uuid.UUID, input MovieInput) (*model.Movie, error) {
	fields := map[string]interface{}{
		"title":      input.Title,
		"director":   input.Director,
		"year":       input.Year,
		"poster_url": input.PosterURL,
	}

	affected, err := s.movies.UpdateFields(ctx, id, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if affected == 0 {
		return nil, apperrors.ErrMovieNotFound
	}

	_ = s.cache.Delete(ctx, cache.MovieKey(ownerID, id))
	return s.findOwned(ctx, ownerID, id)
}

func (s *movieService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	affected, err := s.movies.Delete(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrMovieNotFound
	}

	_ = s.cache.Delete(ctx, cache.MovieKey(ownerID, id))
	return nil
}

// ToggleFavorite flips isFavorite with a read-then-write pair. Concurrent
// toggles on the same id may lose an update; last write wins.
func (s *movieService) ToggleFavorite(ctx context.Context, ownerID, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.movies.UpdateFields(ctx, id, ownerID, map[string]interface{}{
		"is_favorite": !movie.IsFavorite,
	}); err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.MovieKey(ownerID, id))
	return s.findOwned(ctx, ownerID, id)
}

func (s *movieService) SetRating(ctx context.Context, ownerID, id uuid.UUID, rating int) (*model.Movie, error) {
	if rating < 0 || rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	if _, err := s.findOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	if _, err := s.movies.UpdateFields(ctx, id, ownerID, map[string]interface{}{
		"rating": rating,
	}); err != nil {
		return nil, fmt.Errorf("set rating: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.MovieKey(ownerID, id))
	return s.findOwned(ctx, ownerID, id)
}

func (s *movieService) findOwned(ctx context.Context, ownerID, id uuid.UUID) (*model.Movie, error) {
	movie, err := s.movies.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}
