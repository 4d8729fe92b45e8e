package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/testdb"
	"github.com/forcosplay/costume-shop/internal/transport"
)

type fakeSearcher struct {
	indexed map[uint]string
	deleted []uint
	hits    []uint
	err     error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{indexed: map[uint]string{}}
}

func (s *fakeSearcher) Search(_ context.Context, _ string, from, size int) (int64, []uint, error) {
	if s.err != nil {
		return 0, nil, s.err
	}
	return int64(len(s.hits)), s.hits, nil
}

func (s *fakeSearcher) IndexCostume(_ context.Context, c *models.Costume) error {
	s.indexed[c.ID] = c.Name
	return nil
}

func (s *fakeSearcher) DeleteCostume(_ context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newCatalogService(t *testing.T) (*CatalogService, *fakeSearcher, *fakePublisher) {
	t.Helper()
	search := newFakeSearcher()
	events := &fakePublisher{}
	return &CatalogService{
		Repo:   &repo.GormRepo{DB: testdb.New(t)},
		Search: search,
		Events: events,
	}, search, events
}

func TestCatalog_CRUD(t *testing.T) {
	svc, search, events := newCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Anime")
	require.NoError(t, err)

	costume, err := svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{
		Name:        "Naruto",
		Description: "orange jumpsuit",
		SalePrice:   1200,
		RentalPrice: 150,
		Quantity:    3,
		Sizes:       []string{"S", "M"},
		CategoryID:  &cat.ID,
		Images:      []transport.ImageInput{{URL: "https://img.example/naruto.png"}},
	})
	require.NoError(t, err)
	assert.True(t, costume.Available)
	assert.Equal(t, "S,M", costume.Sizes)
	assert.Equal(t, "Naruto", search.indexed[costume.ID])

	got, err := svc.GetCostume(ctx, costume.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Anime", got.Category.Name)

	price := 1000.0
	unavailable := false
	patched, err := svc.PatchCostume(ctx, 1, costume.ID, transport.PatchCostumeRequest{SalePrice: &price, Available: &unavailable})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, patched.SalePrice)
	assert.False(t, patched.Available)
	assert.Len(t, patched.Images, 1)

	require.NoError(t, svc.DeleteCostume(ctx, 1, costume.ID))
	assert.Equal(t, []uint{costume.ID}, search.deleted)
	_, err = svc.GetCostume(ctx, costume.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCostume(ctx, 1, costume.ID), domain.ErrNotFound)

	assert.Equal(t, []string{"costume_created", "costume_updated", "costume_deleted"}, events.types())
}

func TestCatalog_Validation(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: "X", SalePrice: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: "X", Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateCategory(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateCategory(ctx, "Horror")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Horror")
	assert.ErrorIs(t, err, domain.ErrConflict)

	scifi, err := svc.CreateCategory(ctx, "SciFi")
	require.NoError(t, err)
	renamed, err := svc.RenameCategory(ctx, scifi.ID, "Sci-Fi")
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", renamed.Name)
	_, err = svc.RenameCategory(ctx, scifi.ID, "Horror")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = svc.GetCategory(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_Filter(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	ctx := context.Background()

	anime, err := svc.CreateCategory(ctx, "Anime")
	require.NoError(t, err)
	horror, err := svc.CreateCategory(ctx, "Horror")
	require.NoError(t, err)

	mk := func(name string, price float64, cat uint) {
		_, err := svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: name, SalePrice: price, Quantity: 1, CategoryID: &cat})
		require.NoError(t, err)
	}
	mk("Naruto", 1200, anime.ID)
	mk("Sasuke", 900, anime.ID)
	mk("Zombie", 500, horror.ID)

	items, err := svc.FilterCostumes(ctx, transport.CostumeFilter{Query: "naru"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Naruto", items[0].Name)

	items, err = svc.FilterCostumes(ctx, transport.CostumeFilter{Categories: []uint{anime.ID}, Price: []float64{800, 1000}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sasuke", items[0].Name)

	_, err = svc.FilterCostumes(ctx, transport.CostumeFilter{Price: []float64{1}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteCategory(ctx, horror.ID))
	items, err = svc.FilterCostumes(ctx, transport.CostumeFilter{Query: "zombie"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CategoryID)
}

func TestCatalog_Search(t *testing.T) {
	svc, search, _ := newCatalogService(t)
	ctx := context.Background()

	a, err := svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: "Vampire", SalePrice: 10, Quantity: 1})
	require.NoError(t, err)
	b, err := svc.CreateCostume(ctx, 1, transport.CreateCostumeRequest{Name: "Vampire Queen", SalePrice: 20, Quantity: 1})
	require.NoError(t, err)

	search.hits = []uint{b.ID, a.ID}
	total, items, err := svc.SearchCostumes(ctx, "vamp", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)

	search.err = errors.New("index unavailable")
	total, items, err = svc.SearchCostumes(ctx, "queen", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Vampire Queen", items[0].Name)

	_, _, err = svc.SearchCostumes(ctx, "", 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
