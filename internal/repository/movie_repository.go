package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filmoteca/internal/model"
)

// MovieRepository defines movie persistence operations. Every read and
// mutation is filtered by owner at the query layer, so a caller can never
// reach another owner's record through this interface.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Movie, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Movie, error)
	// UpdateFields applies a conditional update filtered by (id, ownerID) and
	// reports how many rows matched. Zero means absent or foreign-owned.
	UpdateFields(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (int64, error)
	// Delete removes the record filtered by (id, ownerID) and reports how
	// many rows matched.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Create creates a new movie record.
func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// ListByOwner lists all movies owned by ownerID, newest-created first.
func (r *movieRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Movie, error) {
	var movies []model.Movie
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// FindByIDAndOwner finds a movie by id scoped to its owner.
func (r *movieRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateFields applies a conditional owner-scoped update.
func (r *movieRepository) UpdateFields(ctx context.Context, id, ownerID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Delete removes a movie with an owner-scoped condition.
func (r *movieRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Movie{})
	return res.RowsAffected, res.Error
}
