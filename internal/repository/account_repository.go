package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"meteo-server/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(role model.Role, account *model.Account) error {
	if err := r.db.Table(model.TableForRole(role)).Create(account).Error; err != nil {
		return fmt.Errorf("create %s failed: %w", role, err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ref model.UserRef) (*model.Account, error) {
	var account model.Account
	err := r.db.Table(model.TableForRole(ref.Role)).Where("id = ?", ref.ID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query %s by id failed: %w", ref.Role, err)
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(role model.Role, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.Table(model.TableForRole(role)).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query %s by email failed: %w", role, err)
	}
	return &account, nil
}

// Homi returns the account's balance and whether the account exists.
func (r *AccountRepository) Homi(ref model.UserRef) (int64, bool, error) {
	account, err := r.GetByID(ref)
	if err != nil {
		return 0, false, err
	}
	if account == nil {
		return 0, false, nil
	}
	return account.Homi, true, nil
}

// ListRandomMentors backs the landing page mentor carousel.
func (r *AccountRepository) ListRandomMentors(limit int) ([]model.Account, error) {
	if limit <= 0 {
		limit = 8
	}
	var mentors []model.Account
	err := r.db.Table(model.TableForRole(model.RoleMentor)).Order("RAND()").Limit(limit).Find(&mentors).Error
	if err != nil {
		return nil, fmt.Errorf("list random mentors failed: %w", err)
	}
	return mentors, nil
}
