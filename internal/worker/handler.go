package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/notify"
	"github.com/ShubhamP528/RentManagement-frontend/internal/queue"
)

// Dispatcher is the notification entry point the worker feeds.
type Dispatcher interface {
	HandleForeground(ctx context.Context, msg model.Message) (model.Notification, error)
	HandleBackground(ctx context.Context, msg model.Message) (model.Notification, error)
	Opened(ctx context.Context, ev model.Event) error
}

// AppState reports whether the app is in the foreground.
type AppState interface {
	Foreground() bool
}

// Handler routes push stream events to the dispatcher.
type Handler struct {
	dispatcher Dispatcher
	state      AppState
}

// NewHandler creates a new event handler.
func NewHandler(dispatcher Dispatcher, state AppState) *Handler {
	return &Handler{dispatcher: dispatcher, state: state}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.PushEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventMessage:
		err = h.handleMessage(ctx, event)
	case queue.EventOpened:
		err = h.handleOpened(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s id=%s duration=%v err=%v",
			event.Type, event.ID, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s id=%s duration=%v", event.Type, event.ID, time.Since(startTime))
	return nil
}

// handleMessage displays a data-only message in the current execution context.
func (h *Handler) handleMessage(ctx context.Context, event queue.PushEvent) error {
	msg := event.Message()
	if h.state != nil && h.state.Foreground() {
		_, err := h.dispatcher.HandleForeground(ctx, msg)
		return err
	}
	_, err := h.dispatcher.HandleBackground(ctx, msg)
	return err
}

// handleOpened forwards a tap to the dispatcher queue.
func (h *Handler) handleOpened(ctx context.Context, event queue.PushEvent) error {
	source := model.SourceBackground
	if h.state != nil && h.state.Foreground() {
		source = model.SourceForeground
	}
	return h.dispatcher.Opened(ctx, notify.EventFrom(event.Notification(), source))
}
