package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewNotifier(rdb)
}

func receiveSignal(t *testing.T, signals <-chan Signal) Signal {
	t.Helper()
	select {
	case sig := <-signals:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
		return Signal{}
	}
}

func TestPublishReachesKitchenSubscriber(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, err := n.Subscribe(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, n.Publish(context.Background(), 3, 7))

	sig := receiveSignal(t, signals)
	assert.Equal(t, uint(3), sig.OrderID)
	assert.Equal(t, uint(7), sig.KitchenID)
}

func TestKitchenSubscriberIgnoresOtherKitchens(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, err := n.Subscribe(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, n.Publish(context.Background(), 4, 8))

	select {
	case sig := <-signals:
		t.Fatalf("unexpected signal for another kitchen: %+v", sig)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnscopedSubscriberSeesAllKitchens(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, err := n.Subscribe(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, n.Publish(context.Background(), 3, 7))
	require.NoError(t, n.Publish(context.Background(), 4, 8))

	first := receiveSignal(t, signals)
	second := receiveSignal(t, signals)
	assert.ElementsMatch(t, []uint{3, 4}, []uint{first.OrderID, second.OrderID})
}

func TestCancelClosesSignalChannel(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	signals, err := n.Subscribe(ctx, 7)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-signals:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("signal channel was not closed after cancellation")
	}
}
