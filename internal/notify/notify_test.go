package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/navigation"
)

func TestResolveTable(t *testing.T) {
	tests := []struct {
		name   string
		data   map[string]string
		want   model.Target
		wantOK bool
	}{
		{
			name:   "room detail",
			data:   map[string]string{"screen": "RoomDetail", "roomId": "r1"},
			want:   model.Target{Screen: model.ScreenRoomDetail, Params: model.Params{"roomId": "r1"}},
			wantOK: true,
		},
		{
			name:   "property detail",
			data:   map[string]string{"screen": "PropertyDetail", "propertyId": "p1", "roomId": "ignored"},
			want:   model.Target{Screen: model.ScreenPropertyDetail, Params: model.Params{"propertyId": "p1"}},
			wantOK: true,
		},
		{
			name:   "tenant documents",
			data:   map[string]string{"screen": "TenantDocuments", "tenantId": "t1"},
			want:   model.Target{Screen: model.ScreenTenantDocuments, Params: model.Params{"tenantId": "t1"}},
			wantOK: true,
		},
		{
			name: "transaction details",
			data: map[string]string{"screen": "TransactionDetails", "tenantId": "t1", "roomId": "r1"},
			want: model.Target{Screen: model.ScreenTransactionDetails, Params: model.Params{
				"tenantId": "t1", "roomId": "r1", "previousReading": 0,
			}},
			wantOK: true,
		},
		{name: "transaction details without room", data: map[string]string{"screen": "TransactionDetails", "tenantId": "t1"}},
		{name: "room detail without room", data: map[string]string{"screen": "RoomDetail"}},
		{name: "empty companion field", data: map[string]string{"screen": "PropertyDetail", "propertyId": ""}},
		{name: "unknown screen", data: map[string]string{"screen": "Settings", "roomId": "r1"}},
		{name: "login is not a target", data: map[string]string{"screen": "Login"}},
		{name: "no screen", data: map[string]string{"roomId": "r1"}},
		{name: "nil data", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRenderDefaults(t *testing.T) {
	n := Render(model.Message{Data: map[string]string{"screen": "RoomDetail", "roomId": "r1"}})
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.DefaultNotificationTitle, n.Title)
	assert.Equal(t, model.DefaultNotificationBody, n.Body)
	assert.Equal(t, model.DefaultChannelID, n.ChannelID)
	assert.Equal(t, map[string]string{"screen": "RoomDetail", "roomId": "r1"}, n.Data)
}

func TestRenderConsumesDisplayHints(t *testing.T) {
	n := Render(model.Message{ID: "m1", Data: map[string]string{
		"title": "Rent due", "body": "Room 101 rent is due", "channelId": "rent_reminders",
		"screen": "RoomDetail", "roomId": "r1", "campaign": "march",
	}})
	assert.Equal(t, "m1", n.ID)
	assert.Equal(t, "Rent due", n.Title)
	assert.Equal(t, "Room 101 rent is due", n.Body)
	assert.Equal(t, "rent_reminders", n.ChannelID)
	assert.Equal(t, map[string]string{"screen": "RoomDetail", "roomId": "r1", "campaign": "march"}, n.Data)
}

type flakyDisplayer struct {
	*LogDisplayer
	mu          sync.Mutex
	createCalls int
	failCreate  error
}

func (f *flakyDisplayer) CreateChannel(ctx context.Context, ch model.Channel) error {
	f.mu.Lock()
	f.createCalls++
	f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	return f.LogDisplayer.CreateChannel(ctx, ch)
}

func TestChannelsCreatedAtMostOnce(t *testing.T) {
	d := &flakyDisplayer{LogDisplayer: NewLogDisplayer()}
	ch := NewChannels(d, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ch.Ensure(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, d.createCalls)
	ids := []string{}
	for _, c := range d.Channels() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"default", "rent_reminders", "payments", "documents"}, ids)
}

func TestChannelFailureNotRetried(t *testing.T) {
	boom := errors.New("no permission")
	d := &flakyDisplayer{LogDisplayer: NewLogDisplayer(), failCreate: boom}
	ch := NewChannels(d, nil)

	assert.ErrorIs(t, ch.Ensure(context.Background()), boom)
	assert.ErrorIs(t, ch.Ensure(context.Background()), boom)
	assert.Equal(t, 1, d.createCalls)
}

func TestDisplayWithoutChannels(t *testing.T) {
	d := &flakyDisplayer{LogDisplayer: NewLogDisplayer(), failCreate: errors.New("no permission")}
	disp := NewDispatcher(d, navigation.NewHandle(), Config{})

	for i := 0; i < 3; i++ {
		n, err := disp.HandleForeground(context.Background(), model.Message{Data: map[string]string{"channelId": "payments"}})
		require.NoError(t, err)
		assert.Equal(t, model.DefaultChannelID, n.ChannelID)
	}
	n, err := disp.HandleBackground(context.Background(), model.Message{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChannelID, n.ChannelID)

	assert.Len(t, d.Displayed(), 4)
	assert.Equal(t, 1, d.createCalls)
}

func TestForegroundAndBackgroundDisplay(t *testing.T) {
	tray := NewLogDisplayer()
	d := NewDispatcher(tray, navigation.NewHandle(), Config{})

	n, err := d.HandleForeground(context.Background(), model.Message{Data: map[string]string{"title": "Payment received"}})
	require.NoError(t, err)
	assert.Equal(t, "Payment received", n.Title)

	// nothing is mounted in the background
	n, err = d.HandleBackground(context.Background(), model.Message{Data: map[string]string{"channelId": "nonexistent"}})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChannelID, n.ChannelID)

	assert.Len(t, tray.Displayed(), 2)
	assert.Len(t, tray.Channels(), 4)
}

// recorder collects navigations from the dispatcher loop.
type recorder struct {
	ch chan model.Target
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan model.Target, 8)}
}

func (r *recorder) hook(_ model.Event, target model.Target) {
	r.ch <- target
}

func (r *recorder) next(t *testing.T, timeout time.Duration) (model.Target, bool) {
	t.Helper()
	select {
	case target := <-r.ch:
		return target, true
	case <-time.After(timeout):
		return model.Target{}, false
	}
}

func startDispatcher(t *testing.T, nav Navigator, delay time.Duration) (*Dispatcher, *recorder) {
	t.Helper()
	d := NewDispatcher(NewLogDisplayer(), nav, Config{ReadyDelay: delay})
	rec := newRecorder()
	d.OnNavigate = rec.hook

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d, rec
}

func TestOpenedNavigatesAfterDelay(t *testing.T) {
	nav := navigation.NewHandle()
	stack := navigation.NewStack(model.ScreenProperties)
	nav.Attach(stack)
	d, rec := startDispatcher(t, nav, 20*time.Millisecond)

	ev := EventFrom(model.Notification{ID: "n1", Data: map[string]string{"screen": "RoomDetail", "roomId": "r1"}}, model.SourceBackground)
	start := time.Now()
	require.NoError(t, d.Opened(context.Background(), ev))

	target, ok := rec.next(t, 2*time.Second)
	require.True(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, model.Target{Screen: model.ScreenRoomDetail, Params: model.Params{"roomId": "r1"}}, target)
	assert.Equal(t, model.Route{Name: model.ScreenRoomDetail, Params: model.Params{"roomId": "r1"}}, stack.Current())
}

func TestOpenedWithMissingFieldsDoesNothing(t *testing.T) {
	nav := navigation.NewHandle()
	stack := navigation.NewStack(model.ScreenProperties)
	nav.Attach(stack)
	d, rec := startDispatcher(t, nav, 0)

	require.NoError(t, d.Opened(context.Background(), model.Event{
		ID: "n1", Data: map[string]string{"screen": "TransactionDetails", "tenantId": "t1"}, Source: model.SourceForeground,
	}))
	// a valid event behind it proves the first was processed and dropped
	require.NoError(t, d.Opened(context.Background(), model.Event{
		ID: "n2", Data: map[string]string{"screen": "TenantDocuments", "tenantId": "t1"}, Source: model.SourceForeground,
	}))

	target, ok := rec.next(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, model.ScreenTenantDocuments, target.Screen)
	assert.Len(t, stack.Routes(), 2)
}

func TestOpenedDroppedWhenNotReady(t *testing.T) {
	nav := navigation.NewHandle()
	d, rec := startDispatcher(t, nav, 10*time.Millisecond)

	require.NoError(t, d.Opened(context.Background(), model.Event{
		ID: "n1", Data: map[string]string{"screen": "RoomDetail", "roomId": "r1"}, Source: model.SourceColdStart,
	}))
	_, ok := rec.next(t, 200*time.Millisecond)
	assert.False(t, ok)

	// attaching afterwards does not replay the dropped event
	stack := navigation.NewStack(model.ScreenProperties)
	nav.Attach(stack)
	_, ok = rec.next(t, 100*time.Millisecond)
	assert.False(t, ok)
	assert.Len(t, stack.Routes(), 1)
}

func TestHandleInitialColdStart(t *testing.T) {
	nav := navigation.NewHandle()
	nav.Attach(navigation.NewStack(model.ScreenProperties))
	d, rec := startDispatcher(t, nav, 0)

	tray := NewLogDisplayer()
	tray.SetLaunch(model.Notification{ID: "launch", Data: map[string]string{"screen": "PropertyDetail", "propertyId": "p1"}})

	require.NoError(t, d.HandleInitial(context.Background(), tray))
	target, ok := rec.next(t, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, model.ScreenPropertyDetail, target.Screen)

	// the launch notification is reported once
	require.NoError(t, d.HandleInitial(context.Background(), tray))
	_, ok = rec.next(t, 100*time.Millisecond)
	assert.False(t, ok)
}

func TestOpenedRespectsContext(t *testing.T) {
	d := NewDispatcher(NewLogDisplayer(), navigation.NewHandle(), Config{QueueSize: 1})
	require.NoError(t, d.Opened(context.Background(), model.Event{ID: "fills-queue"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Opened(ctx, model.Event{ID: "blocked"}), context.DeadlineExceeded)
}
