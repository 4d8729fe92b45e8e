package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	middleware "github.com/forcosplay/costume-shop/pkg/middleware/auth"
)

var ErrAccountExists = fmt.Errorf("email already registered: %w", domain.ErrConflict)

func (r *GormRepo) CreateAccount(ctx context.Context, account *models.Account) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", account.Email).FirstOrCreate(account)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrAccountExists
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAccountExists
	}
	return nil
}

func (r *GormRepo) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, notFound(err, "account")
	}
	return &account, nil
}

func (r *GormRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, notFound(err, "account")
	}
	return &account, nil
}

func (r *GormRepo) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount applies the given column values to one account.
func (r *GormRepo) UpdateAccount(ctx context.Context, id uint, fields map[string]any) (*models.Account, error) {
	res := r.DB.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "account")
	}
	return r.GetAccount(ctx, id)
}

// AccountState serves the authorization middleware.
func (r *GormRepo) AccountState(ctx context.Context, id uint) (*middleware.AccountState, error) {
	account, err := r.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, middleware.ErrAccountNotFound
		}
		return nil, err
	}
	return &middleware.AccountState{
		Email:   account.Email,
		Role:    account.Role,
		Enabled: account.Enabled,
	}, nil
}
