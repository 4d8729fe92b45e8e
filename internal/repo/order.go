package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
)

func linesByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// FindOrderByPaymentRef returns nil, nil when no order carries ref.
func (r *GormRepo) FindOrderByPaymentRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Lines", linesByID).Where("payment_ref = ?", ref).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	lines := order.Lines
	order.Lines = nil
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment reference already used: %w", domain.ErrConflict)
		}
		return err
	}

	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := r.DB.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}
	}
	order.Lines = lines
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Lines", linesByID).First(&order, id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, accountID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines", linesByID).
		Preload("Account").
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Lines", linesByID).
		Preload("Account").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) SetOrderStatus(ctx context.Context, id uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "order")
	}
	return nil
}

// SetRentalStatus updates the rental lines of an order whose status differs
// from status and returns how many lines changed.
func (r *GormRepo) SetRentalStatus(ctx context.Context, orderID uint, status string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderLine{}).
		Where("order_id = ? AND type = ?", orderID, domain.PurchaseTypeRental).
		Where("(rental_status IS NULL OR rental_status <> ?)", status).
		Update("rental_status", status)
	return res.RowsAffected, res.Error
}
