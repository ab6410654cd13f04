package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/model"
)

// MockMovieRepository is a mock implementation of MovieRepository.
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Movie, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Movie, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieRepository) UpdateFields(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, ownerID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func TestMovieService_Create(t *testing.T) {
	ownerID := uuid.New()

	mockRepo := new(MockMovieRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Movie")).Return(nil)

	service := NewMovieService(mockRepo, nil)
	movie, err := service.Create(context.Background(), ownerID, MovieInput{Title: "Dune"})

	assert.NoError(t, err)
	assert.Equal(t, "Dune", movie.Title)
	assert.Equal(t, ownerID, movie.OwnerID)
	assert.False(t, movie.IsFavorite)
	assert.Equal(t, 0, movie.Rating)
	mockRepo.AssertExpectations(t)
}

func TestMovieService_Get(t *testing.T) {
	ownerID := uuid.New()
	movieID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&model.Movie{
			ID:      movieID,
			Title:   "Dune",
			OwnerID: ownerID,
		}, nil)

		service := NewMovieService(mockRepo, nil)
		movie, err := service.Get(context.Background(), ownerID, movieID)

		assert.NoError(t, err)
		assert.Equal(t, movieID, movie.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("absent or foreign-owned", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(nil, gorm.ErrRecordNotFound)

		service := NewMovieService(mockRepo, nil)
		movie, err := service.Get(context.Background(), ownerID, movieID)

		assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)
		assert.Nil(t, movie)
		mockRepo.AssertExpectations(t)
	})
}

func TestMovieService_Update(t *testing.T) {
	ownerID := uuid.New()
	movieID := uuid.New()
	input := MovieInput{Title: "Dune", Director: "Denis Villeneuve", Year: 2021, PosterURL: "http://example.com/dune.jpg"}
	fields := map[string]interface{}{
		"title":      "Dune",
		"director":   "Denis Villeneuve",
		"year":       2021,
		"poster_url": "http://example.com/dune.jpg",
	}

	t.Run("success re-fetches the record", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("UpdateFields", mock.Anything, movieID, ownerID, fields).Return(int64(1), nil)
		mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&model.Movie{
			ID:       movieID,
			Title:    "Dune",
			Director: "Denis Villeneuve",
			Year:     2021,
			OwnerID:  ownerID,
		}, nil)

		service := NewMovieService(mockRepo, nil)
		movie, err := service.Update(context.Background(), ownerID, movieID, input)

		assert.NoError(t, err)
		assert.Equal(t, "Denis Villeneuve", movie.Director)
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero rows affected means not found", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("UpdateFields", mock.Anything, movieID, ownerID, fields).Return(int64(0), nil)

		service := NewMovieService(mockRepo, nil)
		movie, err := service.Update(context.Background(), ownerID, movieID, input)

		assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)
		assert.Nil(t, movie)
		mockRepo.AssertExpectations(t)
	})
}

func TestMovieService_Delete(t *testing.T) {
	ownerID := uuid.New()
	movieID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("Delete", mock.Anything, movieID, ownerID).Return(int64(1), nil)

		service := NewMovieService(mockRepo, nil)
		assert.NoError(t, service.Delete(context.Background(), ownerID, movieID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero rows affected means not found", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("Delete", mock.Anything, movieID, ownerID).Return(int64(0), nil)

		service := NewMovieService(mockRepo, nil)
		assert.ErrorIs(t, service.Delete(context.Background(), ownerID, movieID), apperrors.ErrMovieNotFound)
		mockRepo.AssertExpectations(t)
	})
}

// Toggling twice returns isFavorite to its original value.
func TestMovieService_ToggleFavorite_Involution(t *testing.T) {
	ownerID := uuid.New()
	movieID := uuid.New()

	base := model.Movie{ID: movieID, Title: "Dune", OwnerID: ownerID}
	flipped := base
	flipped.IsFavorite = true

	mockRepo := new(MockMovieRepository)
	// First toggle: read false, write true, re-read true.
	mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&base, nil).Once()
	mockRepo.On("UpdateFields", mock.Anything, movieID, ownerID, map[string]interface{}{"is_favorite": true}).Return(int64(1), nil).Once()
	mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&flipped, nil).Once()
	// Second toggle: read true, write false, re-read false.
	mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&flipped, nil).Once()
	mockRepo.On("UpdateFields", mock.Anything, movieID, ownerID, map[string]interface{}{"is_favorite": false}).Return(int64(1), nil).Once()
	mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&base, nil).Once()

	service := NewMovieService(mockRepo, nil)

	first, err := service.ToggleFavorite(context.Background(), ownerID, movieID)
	assert.NoError(t, err)
	assert.True(t, first.IsFavorite)

	second, err := service.ToggleFavorite(context.Background(), ownerID, movieID)
	assert.NoError(t, err)
	assert.False(t, second.IsFavorite)

	mockRepo.AssertExpectations(t)
}

func TestMovieService_SetRating(t *testing.T) {
	ownerID := uuid.New()
	movieID := uuid.New()

	valid := func(rating int) func(t *testing.T) {
		return func(t *testing.T) {
			rated := model.Movie{ID: movieID, Title: "Dune", OwnerID: ownerID, Rating: rating}

			mockRepo := new(MockMovieRepository)
			mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&model.Movie{
				ID: movieID, Title: "Dune", OwnerID: ownerID,
			}, nil).Once()
			mockRepo.On("UpdateFields", mock.Anything, movieID, ownerID, map[string]interface{}{"rating": rating}).Return(int64(1), nil).Once()
			mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(&rated, nil).Once()

			service := NewMovieService(mockRepo, nil)
			movie, err := service.SetRating(context.Background(), ownerID, movieID, rating)

			assert.NoError(t, err)
			assert.Equal(t, rating, movie.Rating)
			mockRepo.AssertExpectations(t)
		}
	}

	t.Run("lower boundary 0", valid(0))
	t.Run("upper boundary 5", valid(5))

	invalid := func(rating int) func(t *testing.T) {
		return func(t *testing.T) {
			// The repository must never be touched for an invalid rating.
			mockRepo := new(MockMovieRepository)

			service := NewMovieService(mockRepo, nil)
			movie, err := service.SetRating(context.Background(), ownerID, movieID, rating)

			assert.ErrorIs(t, err, apperrors.ErrInvalidRating)
			assert.Nil(t, movie)
			mockRepo.AssertExpectations(t)
		}
	}

	t.Run("below range", invalid(-1))
	t.Run("above range", invalid(6))

	t.Run("valid rating on missing movie", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerID).Return(nil, gorm.ErrRecordNotFound)

		service := NewMovieService(mockRepo, nil)
		movie, err := service.SetRating(context.Background(), ownerID, movieID, 3)

		assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)
		assert.Nil(t, movie)
		mockRepo.AssertExpectations(t)
	})
}

// A movie owned by user A is invisible to user B on every operation: the
// owner-scoped queries match nothing for B.
func TestMovieService_OwnershipIsolation(t *testing.T) {
	ownerA := uuid.New()
	ownerB := uuid.New()
	movieID := uuid.New()

	mockRepo := new(MockMovieRepository)
	mockRepo.On("FindByIDAndOwner", mock.Anything, movieID, ownerB).Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("UpdateFields", mock.Anything, movieID, ownerB, mock.Anything).Return(int64(0), nil)
	mockRepo.On("Delete", mock.Anything, movieID, ownerB).Return(int64(0), nil)
	mockRepo.On("ListByOwner", mock.Anything, ownerB).Return([]model.Movie{}, nil)

	service := NewMovieService(mockRepo, nil)
	ctx := context.Background()

	_, err := service.Get(ctx, ownerB, movieID)
	assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)

	_, err = service.Update(ctx, ownerB, movieID, MovieInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)

	assert.ErrorIs(t, service.Delete(ctx, ownerB, movieID), apperrors.ErrMovieNotFound)

	_, err = service.ToggleFavorite(ctx, ownerB, movieID)
	assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)

	_, err = service.SetRating(ctx, ownerB, movieID, 5)
	assert.ErrorIs(t, err, apperrors.ErrMovieNotFound)

	movies, err := service.List(ctx, ownerB)
	assert.NoError(t, err)
	assert.Empty(t, movies)

	// Nothing above may ever query with owner A's id.
	mockRepo.AssertNotCalled(t, "FindByIDAndOwner", mock.Anything, movieID, ownerA)
}
