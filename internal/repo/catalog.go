package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/transport"
)

func (r *GormRepo) GetCostume(ctx context.Context, id uint) (*models.Costume, error) {
	var costume models.Costume
	if err := r.DB.WithContext(ctx).Preload("Images").Preload("Category").First(&costume, id).Error; err != nil {
		return nil, notFound(err, "costume")
	}
	return &costume, nil
}

func (r *GormRepo) ListCostumes(ctx context.Context, offset, limit int) (int64, []models.Costume, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Costume{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Costume
	if err := r.DB.WithContext(ctx).Preload("Images").Preload("Category").
		Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CostumesByIDs(ctx context.Context, ids []uint) ([]models.Costume, error) {
	var items []models.Costume
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Preload("Images").Preload("Category").
		Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) FilterCostumes(ctx context.Context, f transport.CostumeFilter) ([]models.Costume, error) {
	q := r.DB.WithContext(ctx).Model(&models.Costume{}).Preload("Images").Preload("Category")
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if len(f.Categories) > 0 {
		q = q.Where("category_id IN ?", f.Categories)
	}
	if len(f.Price) == 2 {
		q = q.Where("sale_price BETWEEN ? AND ?", f.Price[0], f.Price[1])
	}

	var items []models.Costume
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCostume(ctx context.Context, costume *models.Costume) error {
	return r.DB.WithContext(ctx).Create(costume).Error
}

func (r *GormRepo) PatchCostume(ctx context.Context, id uint, req transport.PatchCostumeRequest) (*models.Costume, error) {
	var costume models.Costume
	if err := r.DB.WithContext(ctx).First(&costume, id).Error; err != nil {
		return nil, notFound(err, "costume")
	}

	if req.Name != nil {
		costume.Name = *req.Name
	}
	if req.Description != nil {
		costume.Description = *req.Description
	}
	if req.SalePrice != nil {
		costume.SalePrice = *req.SalePrice
	}
	if req.RentalPrice != nil {
		costume.RentalPrice = *req.RentalPrice
	}
	if req.Available != nil {
		costume.Available = *req.Available
	}
	if req.Quantity != nil {
		costume.Quantity = *req.Quantity
	}
	if req.Sizes != nil {
		costume.Sizes = strings.Join(req.Sizes, ",")
	}
	if req.CategoryID != nil {
		costume.CategoryID = req.CategoryID
	}

	if err := r.DB.WithContext(ctx).Save(&costume).Error; err != nil {
		return nil, err
	}

	if req.Images != nil {
		if err := r.DB.WithContext(ctx).Where("costume_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return nil, err
		}
		for _, img := range req.Images {
			image := models.Image{CostumeID: id, AssetID: img.AssetID, URL: img.URL, SecureURL: img.SecureURL}
			if err := r.DB.WithContext(ctx).Create(&image).Error; err != nil {
				return nil, err
			}
		}
	}

	return r.GetCostume(ctx, id)
}

func (r *GormRepo) DeleteCostume(ctx context.Context, id uint) error {
	if err := r.DB.WithContext(ctx).Where("costume_id = ?", id).Delete(&models.Image{}).Error; err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Delete(&models.Costume{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "costume")
	}
	return nil
}

// DecrementStock takes count units out of stock. It fails with
// ErrInsufficientStock when fewer than count units remain.
func (r *GormRepo) DecrementStock(ctx context.Context, costumeID uint, count int) error {
	res := r.DB.WithContext(ctx).Model(&models.Costume{}).
		Where("id = ? AND quantity >= ? AND quantity > 0", costumeID, count).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity - ?", count),
			"sold":     gorm.Expr("sold + ?", count),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &domain.LineError{CostumeID: costumeID, Err: domain.ErrInsufficientStock}
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("category %q already exists: %w", category.Name, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &category, nil
}

func (r *GormRepo) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	res := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category %q already exists: %w", name, domain.ErrConflict)
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "category")
	}
	return r.GetCategory(ctx, id)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Costume{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "category")
		}
		return nil
	})
}
