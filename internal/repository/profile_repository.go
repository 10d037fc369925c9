package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/habit-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FirstOrCreate replaces *profile with the stored row, inserting profile first
// when no row exists. A concurrent insert of the same id is resolved by reloading.
func (r *GormProfileRepository) FirstOrCreate(ctx context.Context, profile *models.Profile) error {
	existing, err := r.FindByID(ctx, profile.ID)
	if err == nil {
		*profile = *existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		existing, findErr := r.FindByID(ctx, profile.ID)
		if findErr != nil {
			return err
		}
		*profile = *existing
	}
	return nil
}

func (r *GormProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *GormProfileRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}
