package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type CostumeSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
	IndexCostume(ctx context.Context, c *models.Costume) error
	DeleteCostume(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search CostumeSearcher
	Events EventPublisher
}

func validMoney(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (s *CatalogService) GetCostume(ctx context.Context, id uint) (*models.Costume, error) {
	return s.Repo.GetCostume(ctx, id)
}

func (s *CatalogService) ListCostumes(ctx context.Context, offset, limit int) (int64, []models.Costume, error) {
	return s.Repo.ListCostumes(ctx, offset, limit)
}

func (s *CatalogService) CreateCostume(ctx context.Context, accountID uint, req transport.CreateCostumeRequest) (*models.Costume, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if !validMoney(req.SalePrice) || !validMoney(req.RentalPrice) {
		return nil, fmt.Errorf("prices cannot be negative: %w", domain.ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %w", domain.ErrValidation)
	}

	costume := &models.Costume{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SalePrice:   req.SalePrice,
		RentalPrice: req.RentalPrice,
		Available:   req.Available == nil || *req.Available,
		Quantity:    req.Quantity,
		Sizes:       strings.Join(req.Sizes, ","),
		CategoryID:  req.CategoryID,
	}
	for _, img := range req.Images {
		costume.Images = append(costume.Images, models.Image{AssetID: img.AssetID, URL: img.URL, SecureURL: img.SecureURL})
	}

	if err := s.Repo.CreateCostume(ctx, costume); err != nil {
		return nil, fmt.Errorf("create costume: %w", err)
	}

	s.index(ctx, costume)
	publish(ctx, s.Events, mykafka.TopicCatalog, "costume_created", accountID, map[string]any{
		"costume_id": costume.ID,
		"name":       costume.Name,
	})
	return costume, nil
}

func (s *CatalogService) PatchCostume(ctx context.Context, accountID, id uint, req transport.PatchCostumeRequest) (*models.Costume, error) {
	if (req.SalePrice != nil && !validMoney(*req.SalePrice)) || (req.RentalPrice != nil && !validMoney(*req.RentalPrice)) {
		return nil, fmt.Errorf("prices cannot be negative: %w", domain.ErrValidation)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %w", domain.ErrValidation)
	}

	var costume *models.Costume
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		costume, err = tx.PatchCostume(ctx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, costume)
	publish(ctx, s.Events, mykafka.TopicCatalog, "costume_updated", accountID, map[string]any{
		"costume_id": costume.ID,
		"name":       costume.Name,
	})
	return costume, nil
}

func (s *CatalogService) DeleteCostume(ctx context.Context, accountID, id uint) error {
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteCostume(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteCostume(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "costume_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicCatalog, "costume_deleted", accountID, map[string]any{
		"costume_id": id,
	})
	return nil
}

func (s *CatalogService) FilterCostumes(ctx context.Context, f transport.CostumeFilter) ([]models.Costume, error) {
	if len(f.Price) != 0 && len(f.Price) != 2 {
		return nil, fmt.Errorf("price filter needs [min, max]: %w", domain.ErrValidation)
	}
	return s.Repo.FilterCostumes(ctx, f)
}

// SearchCostumes ranks through the search index and loads the hits from the
// database. Without an index, or when it fails, it falls back to a name match.
func (s *CatalogService) SearchCostumes(ctx context.Context, query string, from, size int) (int64, []models.Costume, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, query, from, size)
		if err == nil {
			items, err := s.Repo.CostumesByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, orderByIDs(items, ids), nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "op", "search", "error", err)
	}

	items, err := s.Repo.FilterCostumes(ctx, transport.CostumeFilter{Query: query})
	if err != nil {
		return 0, nil, err
	}
	total := int64(len(items))
	if from >= len(items) {
		return total, []models.Costume{}, nil
	}
	end := min(from+size, len(items))
	return total, items[from:end], nil
}

func orderByIDs(items []models.Costume, ids []uint) []models.Costume {
	byID := make(map[uint]models.Costume, len(items))
	for _, c := range items {
		byID[c.ID] = c
	}
	out := make([]models.Costume, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *CatalogService) index(ctx context.Context, c *models.Costume) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexCostume(ctx, c); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "costume_id", c.ID, "error", err)
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", domain.ErrValidation)
	}
	category := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.Repo.GetCategory(ctx, id)
}

func (s *CatalogService) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", domain.ErrValidation)
	}
	return s.Repo.RenameCategory(ctx, id, name)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.Repo.DeleteCategory(ctx, id)
}
