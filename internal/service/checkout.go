package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

const defaultRentalDays = 1

type CheckoutService struct {
	Repo   *repo.GormRepo
	Cache  CartCache
	Events EventPublisher
	Now    Clock
}

// Checkout turns the account's cart into an order for a confirmed payment.
// Replaying a payment reference the account already used returns the
// existing order without touching stock.
func (s *CheckoutService) Checkout(ctx context.Context, accountID uint, pc transport.PaymentConfirmation) (*models.Order, error) {
	l := logging.FromContext(ctx).With("account_id", accountID, "payment_ref", pc.ID)

	if strings.TrimSpace(pc.ID) == "" {
		return nil, fmt.Errorf("payment reference is required: %w", domain.ErrValidation)
	}

	if order, err := s.existingOrder(ctx, accountID, pc.ID); order != nil || err != nil {
		if order != nil {
			l.Info("checkout_replayed", "order_id", order.ID)
		}
		return order, err
	}

	cart, err := s.Repo.GetCart(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if math.IsNaN(cart.TotalPrice) || math.IsInf(cart.TotalPrice, 0) || cart.TotalPrice <= 0 {
		return nil, domain.ErrInvalidTotal
	}

	now := s.Now.now()
	order := buildOrder(cart, pc, now)

	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := tx.DecrementStock(ctx, line.CostumeID, line.Count); err != nil {
				return err
			}
		}
		_, err := tx.DeleteCart(ctx, accountID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrInsufficientStock) {
			if existing, lookupErr := s.existingOrder(ctx, accountID, pc.ID); existing != nil || lookupErr != nil {
				return existing, lookupErr
			}
		}
		l.Warn("checkout_failed", "error", err)
		return nil, fmt.Errorf("checkout: %w", err)
	}

	invalidate(ctx, s.Cache, accountID)
	publish(ctx, s.Events, mykafka.TopicOrder, "order_created", accountID, map[string]any{
		"order_id":    order.ID,
		"payment_ref": order.PaymentRef,
		"total_price": order.TotalPrice,
		"lines":       len(order.Lines),
	})
	l.Info("checkout_success", "order_id", order.ID, "total", order.TotalPrice)
	return order, nil
}

func (s *CheckoutService) existingOrder(ctx context.Context, accountID uint, ref string) (*models.Order, error) {
	order, err := s.Repo.FindOrderByPaymentRef(ctx, ref)
	if err != nil || order == nil {
		return nil, err
	}
	if order.AccountID != accountID {
		return nil, fmt.Errorf("payment reference belongs to another account: %w", domain.ErrConflict)
	}
	return order, nil
}

func buildOrder(cart *models.Cart, pc transport.PaymentConfirmation, now time.Time) *models.Order {
	currency := strings.ToLower(strings.TrimSpace(pc.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	order := &models.Order{
		AccountID:     cart.AccountID,
		TotalPrice:    cart.TotalPrice,
		PaymentRef:    pc.ID,
		Amount:        decimal.New(pc.Amount, -2).InexactFloat64(),
		PaymentStatus: pc.Status,
		Currency:      currency,
		Status:        domain.OrderStatusNotProcessed,
		CreatedAt:     now,
		Lines:         make([]models.OrderLine, 0, len(cart.Lines)),
	}

	for _, cl := range cart.Lines {
		line := models.OrderLine{
			CostumeID:      cl.CostumeID,
			Count:          cl.Count,
			Price:          cl.Price,
			Size:           cl.Size,
			Type:           cl.Type,
			RentalDuration: cl.RentalDuration,
		}
		if line.Size == "" {
			line.Size = cart.Size
		}
		if line.Type == "" {
			line.Type = cart.Type
		}
		if cl.Costume != nil {
			line.Name = cl.Costume.Name
		}

		if line.Type == domain.PurchaseTypeRental {
			days := defaultRentalDays
			if cl.RentalDuration != nil && *cl.RentalDuration > 0 {
				days = *cl.RentalDuration
			}
			start := now
			end := now.Add(time.Duration(days) * 24 * time.Hour)
			status := domain.RentalStatusRented
			line.RentalStartDate = &start
			line.RentalEndDate = &end
			line.RentalStatus = &status
		}
		order.Lines = append(order.Lines, line)
	}
	return order
}

func (s *CheckoutService) ListOrders(ctx context.Context, accountID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("orders: %w", domain.ErrNotFound)
	}
	return orders, nil
}
