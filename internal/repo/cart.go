package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, accountID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Costume").
		Preload("Lines.Costume.Images").
		Where("account_id = ?", accountID).First(&cart).Error; err != nil {
		return nil, notFound(err, "cart")
	}
	return &cart, nil
}

// DeleteCart removes the account's cart lines and cart row. It reports
// whether a cart existed.
func (r *GormRepo) DeleteCart(ctx context.Context, accountID uint) (bool, error) {
	var ids []uint
	if err := r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("account_id = ?", accountID).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}

	if err := r.DB.WithContext(ctx).Where("cart_id IN ?", ids).Delete(&models.CartLine{}).Error; err != nil {
		return false, err
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Cart{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// CreateCart inserts the cart row first, then its lines. A second cart for
// the same account is a conflict.
func (r *GormRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	lines := cart.Lines
	cart.Lines = nil
	if err := r.DB.WithContext(ctx).Create(cart).Error; err != nil {
		cart.Lines = lines
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("account %d already has a cart: %w", cart.AccountID, domain.ErrConflict)
		}
		return err
	}

	for i := range lines {
		lines[i].CartID = cart.ID
		lines[i].Costume = nil
	}
	if len(lines) > 0 {
		if err := r.DB.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}
	}
	cart.Lines = lines
	return nil
}

func (r *GormRepo) CountCarts(ctx context.Context, accountID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Cart{}).Where("account_id = ?", accountID).Count(&n).Error
	return n, err
}
