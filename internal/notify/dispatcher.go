package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

const (
	// DefaultReadyDelay lets the navigation container finish mounting.
	DefaultReadyDelay = time.Second

	// DefaultQueueSize bounds opened events waiting for the loop.
	DefaultQueueSize = 16
)

// Navigator is the part of the navigation handle the dispatcher drives.
type Navigator interface {
	IsReady() bool
	Navigate(screen model.Screen, params model.Params) bool
}

// InitialSource reports the notification that launched the app, if any.
type InitialSource interface {
	InitialNotification(ctx context.Context) (*model.Notification, error)
}

// Config tunes the dispatcher.
type Config struct {
	ReadyDelay time.Duration
	QueueSize  int
	Channels   []model.Channel
}

// Dispatcher funnels every opened notification through one queue and one loop.
type Dispatcher struct {
	displayer Displayer
	channels  *Channels
	nav       Navigator
	delay     time.Duration
	events    chan model.Event

	// OnNavigate, when set, is called after each navigation. Tests and the CLI use it.
	OnNavigate func(ev model.Event, target model.Target)
}

// NewDispatcher creates a dispatcher. Call Run to start the loop.
func NewDispatcher(d Displayer, nav Navigator, cfg Config) *Dispatcher {
	if cfg.ReadyDelay < 0 {
		cfg.ReadyDelay = 0
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Dispatcher{
		displayer: d,
		channels:  NewChannels(d, cfg.Channels),
		nav:       nav,
		delay:     cfg.ReadyDelay,
		events:    make(chan model.Event, cfg.QueueSize),
	}
}

// Channels exposes the channel registry.
func (d *Dispatcher) Channels() *Channels {
	return d.channels
}

// HandleForeground renders and displays a message received while active.
// The notification is shown before this returns.
func (d *Dispatcher) HandleForeground(ctx context.Context, msg model.Message) (model.Notification, error) {
	return d.display(ctx, msg, model.SourceForeground)
}

// HandleBackground renders and displays a message received in the background.
// It touches no UI state.
func (d *Dispatcher) HandleBackground(ctx context.Context, msg model.Message) (model.Notification, error) {
	return d.display(ctx, msg, model.SourceBackground)
}

func (d *Dispatcher) display(ctx context.Context, msg model.Message, source model.Source) (model.Notification, error) {
	n := Render(msg)
	if err := d.channels.Ensure(ctx); err != nil {
		// display on the default channel anyway
		log.Printf("[Dispatcher] Channels unavailable for id=%s: %v", n.ID, err)
		n.ChannelID = model.DefaultChannelID
	} else if !d.channels.Has(n.ChannelID) {
		log.Printf("[Dispatcher] Unknown channel=%s for id=%s, using %s", n.ChannelID, n.ID, model.DefaultChannelID)
		n.ChannelID = model.DefaultChannelID
	}
	if err := d.displayer.Display(ctx, n); err != nil {
		log.Printf("[Dispatcher] Display FAILED: source=%s id=%s err=%v", source, n.ID, err)
		return n, fmt.Errorf("display notification: %w", err)
	}
	log.Printf("[Dispatcher] Displayed: source=%s id=%s channel=%s title=%q", source, n.ID, n.ChannelID, n.Title)
	return n, nil
}

// Opened enqueues a tap. It blocks only while the queue is full.
func (d *Dispatcher) Opened(ctx context.Context, ev model.Event) error {
	select {
	case d.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleInitial enqueues the notification that launched the app, if any.
func (d *Dispatcher) HandleInitial(ctx context.Context, src InitialSource) error {
	n, err := src.InitialNotification(ctx)
	if err != nil {
		return fmt.Errorf("initial notification: %w", err)
	}
	if n == nil {
		return nil
	}
	log.Printf("[Dispatcher] App opened from notification id=%s", n.ID)
	return d.Opened(ctx, EventFrom(*n, model.SourceColdStart))
}

// Run creates the channels and processes opened events until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.channels.Ensure(ctx); err != nil {
		log.Printf("[Dispatcher] Continuing without channels: %v", err)
	}

	log.Printf("[Dispatcher] Started (ready delay %v)", d.delay)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Dispatcher] Shutting down")
			return nil
		case ev := <-d.events:
			d.dispatch(ctx, ev)
		}
	}
}

// dispatch resolves then waits the ready delay. A container that is still
// not ready loses the event.
func (d *Dispatcher) dispatch(ctx context.Context, ev model.Event) {
	target, ok := Resolve(ev.Data)
	if !ok {
		log.Printf("[Dispatcher] No navigation for id=%s source=%s screen=%q", ev.ID, ev.Source, ev.Data[model.KeyScreen])
		return
	}

	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	if !d.nav.IsReady() {
		log.Printf("[Dispatcher] Navigation not ready, dropping id=%s screen=%s", ev.ID, target.Screen)
		return
	}
	if !d.nav.Navigate(target.Screen, target.Params) {
		return
	}
	log.Printf("[Dispatcher] Navigated: id=%s source=%s screen=%s", ev.ID, ev.Source, target.Screen)
	if d.OnNavigate != nil {
		d.OnNavigate(ev, target)
	}
}
