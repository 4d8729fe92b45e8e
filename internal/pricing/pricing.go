package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
)

type CatalogReader interface {
	GetCostume(ctx context.Context, id uint) (*models.Costume, error)
}

type Resolver struct {
	Catalog CatalogReader
}

type Quote struct {
	Costume   *models.Costume
	Type      string
	UnitPrice decimal.Decimal
}

// Resolve prices one costume for the requested purchase type. A missing or
// non-positive duration prices a rental at the flat rate.
func (r *Resolver) Resolve(ctx context.Context, costumeID uint, purchaseType string, duration int) (*Quote, error) {
	typ, ok := domain.NormalizePurchaseType(purchaseType)
	if !ok {
		return nil, fmt.Errorf("unknown purchase type %q: %w", purchaseType, domain.ErrValidation)
	}

	costume, err := r.Catalog.GetCostume(ctx, costumeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotAvailable
		}
		return nil, err
	}
	if !costume.Available {
		return nil, domain.ErrNotAvailable
	}

	price, err := UnitPrice(costume, typ, duration)
	if err != nil {
		return nil, err
	}
	return &Quote{Costume: costume, Type: typ, UnitPrice: price}, nil
}

func UnitPrice(c *models.Costume, purchaseType string, duration int) (decimal.Decimal, error) {
	var base float64
	multiplier := int64(1)

	switch purchaseType {
	case domain.PurchaseTypeRental:
		base = c.RentalPrice
		if duration > 0 {
			multiplier = int64(duration)
		}
	default:
		base = c.SalePrice
	}

	if math.IsNaN(base) || math.IsInf(base, 0) {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	price := decimal.NewFromFloat(base).Mul(decimal.NewFromInt(multiplier))
	if !price.IsPositive() {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	return price, nil
}

// LineTotal is one priced line of a cart or order.
type LineTotal struct {
	Price decimal.Decimal
	Count int
}

func Total(lines []LineTotal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Count))))
	}
	f, _ := total.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) || total.IsNegative() {
		return decimal.Zero, domain.ErrTotalCalculationFailed
	}
	return total, nil
}

// FromFloat converts a stored money column, rejecting non-finite values.
func FromFloat(v float64) (decimal.Decimal, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}
