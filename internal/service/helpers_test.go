package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/testdb"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event mykafka.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev, _ := event.(mykafka.Event)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event.Type
	}
	return out
}

type fixture struct {
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Events   *fakePublisher
	Cart     *CartService
	Checkout *CheckoutService
	Rentals  *RentalService
	Now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	r := &repo.GormRepo{DB: db}
	events := &fakePublisher{}
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	clock := Clock(func() time.Time { return now })

	return &fixture{
		DB:       db,
		Repo:     r,
		Events:   events,
		Cart:     NewCartService(r, nil, events),
		Checkout: &CheckoutService{Repo: r, Events: events, Now: clock},
		Rentals:  &RentalService{Repo: r, Events: events, Now: clock},
		Now:      now,
	}
}

func (f *fixture) costume(t *testing.T, c models.Costume) *models.Costume {
	t.Helper()
	return testdb.Costume(t, f.DB, c)
}

func (f *fixture) reload(t *testing.T, id uint) models.Costume {
	t.Helper()
	var c models.Costume
	if err := f.DB.First(&c, id).Error; err != nil {
		t.Fatalf("reload costume: %v", err)
	}
	return c
}

func intPtr(v int) *int { return &v }
