package service

import (
	"context"
	"strconv"
	"time"

	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/mykafka"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// CartCache holds frozen cart views: line data without catalog names or
// images. Set only takes effect if no Delete happened since Generation.
type CartCache interface {
	Generation(ctx context.Context, accountID uint) (int64, error)
	Get(ctx context.Context, accountID uint) (*transport.CartView, error)
	Set(ctx context.Context, accountID uint, gen int64, view *transport.CartView) error
	Delete(ctx context.Context, accountID uint) error
}

type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// publish sends an event after a committed write. Failures are logged only.
func publish(ctx context.Context, p EventPublisher, topic, typ string, accountID uint, data any) {
	if p == nil {
		return
	}
	ev := mykafka.NewEvent(typ, accountID, data)
	key := strconv.FormatUint(uint64(accountID), 10)
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", typ, "error", err)
	}
}

func invalidate(ctx context.Context, c CartCache, accountID uint) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, accountID); err != nil {
		logging.FromContext(ctx).Warn("cart_cache_error", "op", "delete", "account_id", accountID, "error", err)
	}
}
