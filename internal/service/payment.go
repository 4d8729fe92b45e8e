package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/pricing"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/pkg/logging"
)

type PaymentGateway interface {
	CreateIntent(ctx context.Context, accountID uint, amount decimal.Decimal) (string, error)
}

type PaymentService struct {
	Repo    *repo.GormRepo
	Gateway PaymentGateway
}

// CreatePaymentIntent opens a provider payment for the account's cart total
// and returns the client secret the storefront confirms the payment with.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, accountID uint) (string, error) {
	if s.Gateway == nil {
		return "", fmt.Errorf("payment provider not configured: %w", domain.ErrDependency)
	}

	cart, err := s.Repo.GetCart(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrEmptyCart
		}
		return "", err
	}
	if len(cart.Lines) == 0 {
		return "", domain.ErrEmptyCart
	}

	total, ok := pricing.FromFloat(cart.TotalPrice)
	if !ok || !total.IsPositive() {
		return "", domain.ErrInvalidTotal
	}

	secret, err := s.Gateway.CreateIntent(ctx, accountID, total)
	if err != nil {
		logging.FromContext(ctx).Error("payment_intent_error", "account_id", accountID, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	return secret, nil
}
