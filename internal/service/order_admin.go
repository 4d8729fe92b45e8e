package service

import (
	"context"
	"fmt"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type OrderAdminService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *OrderAdminService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListAllOrders(ctx, offset, limit)
}

func (s *OrderAdminService) ChangeOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, domain.ErrValidation)
	}
	if err := s.Repo.SetOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicOrder, "order_status_updated", order.AccountID, map[string]any{
		"order_id": orderID,
		"status":   status,
	})
	logging.FromContext(ctx).Info("order_status_updated", "order_id", orderID, "status", status)
	return order, nil
}
