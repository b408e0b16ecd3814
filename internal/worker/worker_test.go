package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/queue"
	"github.com/ShubhamP528/RentManagement-frontend/internal/worker"
)

// fakeDispatcher records what the worker forwards.
type fakeDispatcher struct {
	mu         sync.Mutex
	foreground []model.Message
	background []model.Message
	opened     []model.Event
	seen       chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{seen: make(chan struct{}, 16)}
}

func (f *fakeDispatcher) HandleForeground(_ context.Context, msg model.Message) (model.Notification, error) {
	f.mu.Lock()
	f.foreground = append(f.foreground, msg)
	f.mu.Unlock()
	f.seen <- struct{}{}
	return model.Notification{ID: msg.ID}, nil
}

func (f *fakeDispatcher) HandleBackground(_ context.Context, msg model.Message) (model.Notification, error) {
	f.mu.Lock()
	f.background = append(f.background, msg)
	f.mu.Unlock()
	f.seen <- struct{}{}
	return model.Notification{ID: msg.ID}, nil
}

func (f *fakeDispatcher) Opened(_ context.Context, ev model.Event) error {
	f.mu.Lock()
	f.opened = append(f.opened, ev)
	f.mu.Unlock()
	f.seen <- struct{}{}
	return nil
}

func (f *fakeDispatcher) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
}

type appState bool

func (s appState) Foreground() bool { return bool(s) }

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHandlerRoutesByAppState(t *testing.T) {
	ctx := context.Background()
	msg := queue.NewMessageEvent(map[string]string{"title": "Rent due"})

	fg := newFakeDispatcher()
	require.NoError(t, worker.NewHandler(fg, appState(true)).HandleEvent(ctx, msg))
	assert.Len(t, fg.foreground, 1)
	assert.Empty(t, fg.background)

	bg := newFakeDispatcher()
	require.NoError(t, worker.NewHandler(bg, appState(false)).HandleEvent(ctx, msg))
	assert.Empty(t, bg.foreground)
	assert.Len(t, bg.background, 1)
	assert.Equal(t, "Rent due", bg.background[0].Data["title"])
}

func TestHandlerOpenedCarriesSource(t *testing.T) {
	ctx := context.Background()
	d := newFakeDispatcher()
	ev := queue.NewOpenedEvent(model.Notification{
		ID:    "n1",
		Title: "Payment received",
		Data:  map[string]string{"screen": "TenantTransactions", "tenantId": "t1"},
	})

	require.NoError(t, worker.NewHandler(d, appState(false)).HandleEvent(ctx, ev))
	require.Len(t, d.opened, 1)
	assert.Equal(t, model.SourceBackground, d.opened[0].Source)
	assert.Equal(t, "n1", d.opened[0].ID)
	assert.Equal(t, "t1", d.opened[0].Data["tenantId"])
}

func TestHandlerRejectsUnknownType(t *testing.T) {
	d := newFakeDispatcher()
	err := worker.NewHandler(d, appState(true)).HandleEvent(context.Background(), queue.PushEvent{Type: "reboot"})
	assert.Error(t, err)
}

func TestManagerConsumesAndAcks(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	pub := queue.NewPublisher(client, "")
	consumer := queue.NewConsumer(client)

	d := newFakeDispatcher()
	cfg := worker.DefaultManagerConfig()
	cfg.BlockTimeout = 50 * time.Millisecond
	m := worker.NewManager(consumer, worker.NewHandler(d, appState(false)), cfg)
	require.NoError(t, m.Start(ctx))
	t.Cleanup(m.Stop)

	_, err := pub.PublishMessage(ctx, map[string]string{"title": "Rent due"})
	require.NoError(t, err)
	_, err = pub.PublishOpened(ctx, model.Notification{ID: "n2", Data: map[string]string{"screen": "Properties"}})
	require.NoError(t, err)

	d.wait(t, 2)

	d.mu.Lock()
	assert.Len(t, d.background, 1)
	assert.Len(t, d.opened, 1)
	d.mu.Unlock()

	assert.Eventually(t, func() bool {
		n, err := consumer.Pending(ctx, queue.StreamPush, queue.ConsumerGroupPush)
		return err == nil && n == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestManagerReplaysPendingOnStart(t *testing.T) {
	ctx := context.Background()
	client := newRedis(t)
	pub := queue.NewPublisher(client, "")
	consumer := queue.NewConsumer(client)
	require.NoError(t, consumer.EnsureGroup(ctx, queue.StreamPush, queue.ConsumerGroupPush))

	_, err := pub.PublishMessage(ctx, map[string]string{"title": "Left over"})
	require.NoError(t, err)

	// delivered to the first worker but never acked, as if the client was killed
	msgs, err := consumer.Read(ctx, queue.StreamPush, queue.ConsumerGroupPush, "device-1", 10, 20*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	d := newFakeDispatcher()
	cfg := worker.DefaultManagerConfig()
	cfg.BlockTimeout = 50 * time.Millisecond
	m := worker.NewManager(consumer, worker.NewHandler(d, appState(true)), cfg)
	require.NoError(t, m.Start(ctx))
	t.Cleanup(m.Stop)

	d.wait(t, 1)
	d.mu.Lock()
	require.Len(t, d.foreground, 1)
	assert.Equal(t, "Left over", d.foreground[0].Data["title"])
	d.mu.Unlock()
}

func TestStopWithoutStart(t *testing.T) {
	m := worker.NewManager(nil, nil, worker.ManagerConfig{})
	m.Stop()
}
