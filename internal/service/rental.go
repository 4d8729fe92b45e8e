package service

import (
	"context"
	"fmt"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type RentalService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	Now    Clock
}

func (s *RentalService) ListRentals(ctx context.Context, accountID uint) ([]transport.RentalView, error) {
	orders, err := s.Repo.ListOrders(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var out []transport.RentalView
	for _, o := range orders {
		username := ""
		if o.Account != nil {
			username = o.Account.Email
		}
		for _, line := range o.Lines {
			if line.Type != domain.PurchaseTypeRental {
				continue
			}
			out = append(out, transport.RentalView{
				OrderID:      o.ID,
				Username:     username,
				Product:      line.Name,
				Size:         line.Size,
				StartDate:    line.RentalStartDate,
				EndDate:      line.RentalEndDate,
				RentalStatus: line.RentalStatus,
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rentals: %w", domain.ErrNotFound)
	}
	return out, nil
}

// ReturnRental marks an order and all of its rental lines as returned. An
// order without rental lines only has its status changed.
// Only the owner or an admin may return an order, and only while no
// outstanding rental line is past its end date.
func (s *RentalService) ReturnRental(ctx context.Context, callerID uint, isAdmin bool, orderID uint) error {
	l := logging.FromContext(ctx).With("order_id", orderID, "account_id", callerID)

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.AccountID != callerID && !isAdmin {
		return fmt.Errorf("order %d belongs to another account: %w", orderID, domain.ErrForbidden)
	}

	now := s.Now.now()
	for _, line := range order.Lines {
		if line.Type != domain.PurchaseTypeRental {
			continue
		}
		outstanding := line.RentalStatus == nil || *line.RentalStatus != domain.RentalStatusReturned
		if outstanding && line.RentalEndDate != nil && now.After(*line.RentalEndDate) {
			l.Warn("return_rental_overdue", "end_date", line.RentalEndDate)
			return domain.ErrOverdue
		}
	}
	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.SetOrderStatus(ctx, orderID, domain.OrderStatusReturned); err != nil {
			return err
		}
		_, err := tx.SetRentalStatus(ctx, orderID, domain.RentalStatusReturned)
		return err
	})
	if err != nil {
		return fmt.Errorf("return rental: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicOrder, "rental_returned", order.AccountID, map[string]any{
		"order_id": orderID,
	})
	l.Info("rental_returned")
	return nil
}

// UpdateRentalStatus sets status on every rental line of the order that
// does not already carry it. Callers validate status.
func (s *RentalService) UpdateRentalStatus(ctx context.Context, orderID uint, status string) (int64, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	n, err := s.Repo.SetRentalStatus(ctx, orderID, status)
	if err != nil {
		return 0, fmt.Errorf("update rental status: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicOrder, "rental_status_updated", order.AccountID, map[string]any{
		"order_id":      orderID,
		"rental_status": status,
		"updated":       n,
	})
	logging.FromContext(ctx).Info("rental_status_updated", "order_id", orderID, "status", status, "updated", n)
	return n, nil
}
