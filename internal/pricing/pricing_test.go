package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
)

type fakeCatalog map[uint]*models.Costume

func (f fakeCatalog) GetCostume(_ context.Context, id uint) (*models.Costume, error) {
	c, ok := f[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type brokenCatalog struct{}

func (brokenCatalog) GetCostume(context.Context, uint) (*models.Costume, error) {
	return nil, errors.New("connection reset")
}

func newResolver() *Resolver {
	return &Resolver{Catalog: fakeCatalog{
		1: {ID: 1, Name: "Witch", SalePrice: 50, RentalPrice: 100, Available: true, Quantity: 5},
		2: {ID: 2, Name: "Ghost", SalePrice: 80, RentalPrice: 20, Available: false, Quantity: 5},
		3: {ID: 3, Name: "Free", SalePrice: 0, RentalPrice: 0, Available: true, Quantity: 5},
		4: {ID: 4, Name: "Broken", SalePrice: math.NaN(), RentalPrice: math.Inf(1), Available: true},
	}}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	r := newResolver()

	tests := []struct {
		name     string
		id       uint
		typ      string
		duration int
		want     string
		wantErr  error
	}{
		{name: "purchase", id: 1, typ: domain.PurchaseTypeSale, want: "50"},
		{name: "default type is purchase", id: 1, typ: "", want: "50"},
		{name: "rental with duration", id: 1, typ: domain.PurchaseTypeRental, duration: 3, want: "300"},
		{name: "flat rental", id: 1, typ: domain.PurchaseTypeRental, want: "100"},
		{name: "unavailable", id: 2, typ: domain.PurchaseTypeSale, wantErr: domain.ErrNotAvailable},
		{name: "missing", id: 99, typ: domain.PurchaseTypeSale, wantErr: domain.ErrNotAvailable},
		{name: "zero price", id: 3, typ: domain.PurchaseTypeSale, wantErr: domain.ErrInvalidPrice},
		{name: "nan price", id: 4, typ: domain.PurchaseTypeSale, wantErr: domain.ErrInvalidPrice},
		{name: "infinite rental", id: 4, typ: domain.PurchaseTypeRental, duration: 2, wantErr: domain.ErrInvalidPrice},
		{name: "unknown type", id: 1, typ: "LEASE", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := r.Resolve(ctx, tt.id, tt.typ, tt.duration)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.UnitPrice.String())
		})
	}
}

func TestResolve_StoreFailure(t *testing.T) {
	r := &Resolver{Catalog: brokenCatalog{}}
	_, err := r.Resolve(context.Background(), 1, domain.PurchaseTypeSale, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotAvailable)
}

func TestTotal(t *testing.T) {
	total, err := Total([]LineTotal{
		{Price: decimal.NewFromInt(50), Count: 2},
		{Price: decimal.RequireFromString("19.99"), Count: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "159.97", total.String())

	total, err = Total(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
