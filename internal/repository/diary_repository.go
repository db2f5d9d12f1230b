package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"meteo-server/internal/model"
)

// DiaryPageSize matches the legacy diary listing page size.
const DiaryPageSize = 15

type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

func (r *DiaryRepository) Create(diary *model.MenteeDiary) error {
	if err := r.db.Create(diary).Error; err != nil {
		return fmt.Errorf("create diary failed: %w", err)
	}
	return nil
}

func (r *DiaryRepository) GetBySrl(diarySrl uint) (*model.MenteeDiary, error) {
	var diary model.MenteeDiary
	if err := r.db.First(&diary, diarySrl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query diary failed: %w", err)
	}
	return &diary, nil
}

func (r *DiaryRepository) Save(diary *model.MenteeDiary) error {
	if err := r.db.Save(diary).Error; err != nil {
		return fmt.Errorf("save diary failed: %w", err)
	}
	return nil
}

func (r *DiaryRepository) Delete(diarySrl uint) error {
	if err := r.db.Delete(&model.MenteeDiary{}, diarySrl).Error; err != nil {
		return fmt.Errorf("delete diary failed: %w", err)
	}
	return nil
}

func (r *DiaryRepository) ListByMentee(menteeSrl uint, page int) ([]model.MenteeDiary, int64, error) {
	return r.list(page, "mentee_srl = ?", menteeSrl)
}

func (r *DiaryRepository) ListAll(page int) ([]model.MenteeDiary, int64, error) {
	return r.list(page, "")
}

func (r *DiaryRepository) list(page int, cond string, args ...interface{}) ([]model.MenteeDiary, int64, error) {
	if page < 1 {
		page = 1
	}

	countQuery := r.db.Model(&model.MenteeDiary{})
	listQuery := r.db.Model(&model.MenteeDiary{})
	if cond != "" {
		countQuery = countQuery.Where(cond, args...)
		listQuery = listQuery.Where(cond, args...)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count diaries failed: %w", err)
	}

	var diaries []model.MenteeDiary
	err := listQuery.
		Order("regdate DESC").
		Offset((page - 1) * DiaryPageSize).
		Limit(DiaryPageSize).
		Find(&diaries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries failed: %w", err)
	}
	return diaries, total, nil
}
