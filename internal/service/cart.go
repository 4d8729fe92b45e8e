package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/forcosplay/costume-shop/internal/cache"
	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/pricing"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type CartService struct {
	Repo    *repo.GormRepo
	Pricing *pricing.Resolver
	Cache   CartCache
	Events  EventPublisher
}

func NewCartService(r *repo.GormRepo, cache CartCache, events EventPublisher) *CartService {
	return &CartService{
		Repo:    r,
		Pricing: &pricing.Resolver{Catalog: r},
		Cache:   cache,
		Events:  events,
	}
}

// ReplaceCart prices every requested line and swaps the account's cart for a
// new one in a single transaction. The cart-level size and type are copied
// from the first line.
func (s *CartService) ReplaceCart(ctx context.Context, accountID uint, req []transport.CartLineRequest) (decimal.Decimal, error) {
	if len(req) == 0 {
		return decimal.Zero, domain.ErrEmptyCart
	}

	lines := make([]models.CartLine, 0, len(req))
	totals := make([]pricing.LineTotal, 0, len(req))
	for _, item := range req {
		if item.Count < 1 {
			return decimal.Zero, &domain.LineError{CostumeID: item.CostumeID, Err: fmt.Errorf("count must be at least 1: %w", domain.ErrValidation)}
		}
		duration := 0
		if item.RentalDuration != nil {
			if *item.RentalDuration < 0 {
				return decimal.Zero, &domain.LineError{CostumeID: item.CostumeID, Err: fmt.Errorf("rental duration cannot be negative: %w", domain.ErrValidation)}
			}
			duration = *item.RentalDuration
		}

		quote, err := s.Pricing.Resolve(ctx, item.CostumeID, item.PurchaseType, duration)
		if err != nil {
			return decimal.Zero, &domain.LineError{CostumeID: item.CostumeID, Err: err}
		}

		line := models.CartLine{
			CostumeID: item.CostumeID,
			Count:     item.Count,
			Price:     quote.UnitPrice.InexactFloat64(),
			Size:      item.Size,
			Type:      quote.Type,
		}
		if quote.Type == domain.PurchaseTypeRental && duration > 0 {
			d := duration
			line.RentalDuration = &d
		}
		lines = append(lines, line)
		totals = append(totals, pricing.LineTotal{Price: quote.UnitPrice, Count: item.Count})
	}

	total, err := pricing.Total(totals)
	if err != nil {
		return decimal.Zero, err
	}

	cart := &models.Cart{
		AccountID:  accountID,
		TotalPrice: total.InexactFloat64(),
		Size:       lines[0].Size,
		Type:       lines[0].Type,
		Lines:      lines,
	}

	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.DeleteCart(ctx, accountID); err != nil {
			return err
		}
		return tx.CreateCart(ctx, cart)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("replace cart: %w", err)
	}

	invalidate(ctx, s.Cache, accountID)
	publish(ctx, s.Events, mykafka.TopicCart, "cart_replaced", accountID, map[string]any{
		"cart_id":     cart.ID,
		"lines":       len(lines),
		"total_price": total.String(),
	})
	logging.FromContext(ctx).Info("cart_replaced", "account_id", accountID, "lines", len(lines), "total", total.String())
	return total, nil
}

// GetCart returns the account's cart with live costume names and thumbnails.
// The total is recomputed from the lines rather than read from the cart row.
// A cached view only replaces the cart queries; catalog data is always read
// fresh.
func (s *CartService) GetCart(ctx context.Context, accountID uint) (*transport.CartView, error) {
	l := logging.FromContext(ctx)

	var gen int64
	canStore := false
	if s.Cache != nil {
		view, err := s.Cache.Get(ctx, accountID)
		if err == nil {
			if err := s.enrich(ctx, view); err != nil {
				return nil, err
			}
			return view, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn("cart_cache_error", "op", "get", "account_id", accountID, "error", err)
		}
		if gen, err = s.Cache.Generation(ctx, accountID); err != nil {
			l.Warn("cart_cache_error", "op", "generation", "account_id", accountID, "error", err)
		} else {
			canStore = true
		}
	}

	cart, err := s.Repo.GetCart(ctx, accountID)
	if err != nil {
		return nil, err
	}
	view, err := frozenView(accountID, cart)
	if err != nil {
		return nil, err
	}

	if canStore {
		if err := s.Cache.Set(ctx, accountID, gen, view); err != nil {
			l.Warn("cart_cache_error", "op", "set", "account_id", accountID, "error", err)
		}
	}

	costumes := make(map[uint]*models.Costume, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.Costume != nil {
			costumes[line.CostumeID] = line.Costume
		}
	}
	applyCatalog(view, costumes)
	return view, nil
}

// frozenView builds the cart view from stored line data only.
func frozenView(accountID uint, cart *models.Cart) (*transport.CartView, error) {
	view := &transport.CartView{
		AccountID: accountID,
		Size:      cart.Size,
		Type:      cart.Type,
		Lines:     make([]transport.CartLineView, 0, len(cart.Lines)),
	}
	totals := make([]pricing.LineTotal, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		price, ok := pricing.FromFloat(line.Price)
		if !ok {
			return nil, domain.ErrTotalCalculationFailed
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(line.Count)))

		view.Lines = append(view.Lines, transport.CartLineView{
			ID:             line.ID,
			CostumeID:      line.CostumeID,
			Count:          line.Count,
			Price:          line.Price,
			Subtotal:       subtotal.InexactFloat64(),
			Size:           line.Size,
			Type:           line.Type,
			RentalDuration: line.RentalDuration,
		})
		totals = append(totals, pricing.LineTotal{Price: price, Count: line.Count})
	}

	total, err := pricing.Total(totals)
	if err != nil {
		return nil, err
	}
	view.TotalPrice = total.InexactFloat64()
	return view, nil
}

func (s *CartService) enrich(ctx context.Context, view *transport.CartView) error {
	ids := make([]uint, 0, len(view.Lines))
	for _, line := range view.Lines {
		ids = append(ids, line.CostumeID)
	}
	items, err := s.Repo.CostumesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	costumes := make(map[uint]*models.Costume, len(items))
	for i := range items {
		costumes[items[i].ID] = &items[i]
	}
	applyCatalog(view, costumes)
	return nil
}

// applyCatalog fills names and thumbnails. Lines whose costume is gone keep
// empty values.
func applyCatalog(view *transport.CartView, costumes map[uint]*models.Costume) {
	for i := range view.Lines {
		line := &view.Lines[i]
		line.Name, line.Image = "", ""
		c, ok := costumes[line.CostumeID]
		if !ok {
			continue
		}
		line.Name = c.Name
		if len(c.Images) > 0 {
			line.Image = c.Images[0].URL
		}
	}
}

// EmptyCart deletes the cart lines and then the cart row.
func (s *CartService) EmptyCart(ctx context.Context, accountID uint) error {
	var existed bool
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		existed, err = tx.DeleteCart(ctx, accountID)
		return err
	})
	if err != nil {
		return fmt.Errorf("empty cart: %w", err)
	}

	invalidate(ctx, s.Cache, accountID)
	if !existed {
		return fmt.Errorf("cart: %w", domain.ErrNotFound)
	}

	publish(ctx, s.Events, mykafka.TopicCart, "cart_emptied", accountID, nil)
	logging.FromContext(ctx).Info("cart_emptied", "account_id", accountID)
	return nil
}
