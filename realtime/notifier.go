package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	ordersChannel     = "orders"
	kitchenChannelFmt = "orders:kitchen:%d"
)

// Signal is a wake-up notification: it names the order that changed and
// nothing else. Delivery is at-least-once and unordered, so consumers must
// re-read ground truth from the database on every signal instead of trusting
// the payload.
type Signal struct {
	OrderID   uint `json:"orderId"`
	KitchenID uint `json:"kitchenId"`
}

// Notifier is the change feed over redis pub/sub. Order mutations publish to
// the global channel and to the channel of the affected kitchen.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish fans an order-changed signal out to the global and per-kitchen
// channels. Best-effort: a lost signal only delays clients until their next
// query.
func (n *Notifier) Publish(ctx context.Context, orderID, kitchenID uint) error {
	payload, err := json.Marshal(Signal{OrderID: orderID, KitchenID: kitchenID})
	if err != nil {
		return err
	}

	if err := n.rdb.Publish(ctx, ordersChannel, payload).Err(); err != nil {
		return err
	}
	return n.rdb.Publish(ctx, fmt.Sprintf(kitchenChannelFmt, kitchenID), payload).Err()
}

// Subscribe delivers signals scoped to one kitchen, or unscoped when
// kitchenID is 0. The returned channel closes when ctx is cancelled; callers
// tear the subscription down by cancelling the context they mounted it with.
func (n *Notifier) Subscribe(ctx context.Context, kitchenID uint) (<-chan Signal, error) {
	channel := ordersChannel
	if kitchenID != 0 {
		channel = fmt.Sprintf(kitchenChannelFmt, kitchenID)
	}

	sub := n.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	signals := make(chan Signal)
	go func() {
		defer close(signals)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var sig Signal
				if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil {
					// A malformed payload still wakes the consumer; the
					// re-query does not depend on the payload shape.
					log.Printf("malformed realtime payload: %v\n", err)
				}
				select {
				case signals <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return signals, nil
}
