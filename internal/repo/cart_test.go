package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/testdb"
)

func TestCreateCart_SecondCartForAccountIsConflict(t *testing.T) {
	db := testdb.New(t)
	r := &GormRepo{DB: db}
	ctx := context.Background()
	acc := testdb.Account(t, db, "a@example.com", "USER")
	witch := testdb.Costume(t, db, models.Costume{Name: "Witch", SalePrice: 50, Available: true, Quantity: 5})

	newCart := func() *models.Cart {
		return &models.Cart{
			AccountID:  acc.ID,
			TotalPrice: 50,
			Type:       domain.PurchaseTypeSale,
			Lines:      []models.CartLine{{CostumeID: witch.ID, Count: 1, Price: 50, Type: domain.PurchaseTypeSale}},
		}
	}

	require.NoError(t, r.CreateCart(ctx, newCart()))

	err := r.CreateCart(ctx, newCart())
	require.ErrorIs(t, err, domain.ErrConflict)

	n, err := r.CountCarts(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var lines int64
	require.NoError(t, db.Model(&models.CartLine{}).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}
