package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"meteo-server/internal/model"
)

type SnsRepository struct {
	db *gorm.DB
}

func NewSnsRepository(db *gorm.DB) *SnsRepository {
	return &SnsRepository{db: db}
}

func (r *SnsRepository) List() ([]model.Sns, error) {
	var posts []model.Sns
	err := r.db.
		Order("sns_type ASC").
		Order("text_created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list sns posts failed: %w", err)
	}
	return posts, nil
}

// Upsert stores a crawled post, keyed by its link. Already-seen posts are
// left untouched so repeated crawls stay idempotent.
func (r *SnsRepository) Upsert(post *model.Sns) (bool, error) {
	var existing model.Sns
	err := r.db.Where("link = ?", post.Link).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("query sns post by link failed: %w", err)
	}

	if err := r.db.Create(post).Error; err != nil {
		return false, fmt.Errorf("create sns post failed: %w", err)
	}
	return true, nil
}
