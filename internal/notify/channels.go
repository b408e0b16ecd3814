// Package notify renders inbound push messages as local notifications and
// turns opened notifications into navigation.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// DefaultChannels are the owner app's notification channels.
func DefaultChannels() []model.Channel {
	return []model.Channel{
		{ID: "default", Name: "Default Channel", Importance: model.ImportanceHigh, Sound: "default"},
		{ID: "rent_reminders", Name: "Rent Reminders", Importance: model.ImportanceHigh, Sound: "default"},
		{ID: "payments", Name: "Payment Notifications", Importance: model.ImportanceHigh, Sound: "default"},
		{ID: "documents", Name: "Document Updates", Importance: model.ImportanceDefault, Sound: "default"},
	}
}

// Displayer is the local notification surface.
type Displayer interface {
	CreateChannel(ctx context.Context, ch model.Channel) error
	Display(ctx context.Context, n model.Notification) error
}

// Channels creates the channel set at most once per process.
type Channels struct {
	displayer Displayer
	channels  []model.Channel

	once sync.Once
	err  error
}

// NewChannels builds a registry. An empty list means DefaultChannels.
func NewChannels(d Displayer, channels []model.Channel) *Channels {
	if len(channels) == 0 {
		channels = DefaultChannels()
	}
	return &Channels{displayer: d, channels: channels}
}

// Ensure creates every channel on the first call. Later calls return the
// first call's result without touching the displayer.
func (c *Channels) Ensure(ctx context.Context) error {
	c.once.Do(func() {
		for _, ch := range c.channels {
			if err := c.displayer.CreateChannel(ctx, ch); err != nil {
				c.err = fmt.Errorf("create channel %s: %w", ch.ID, err)
				log.Printf("[Notify] Channel setup FAILED: %v", c.err)
				return
			}
		}
		log.Printf("[Notify] Created %d notification channels", len(c.channels))
	})
	return c.err
}

// Has reports whether id is a configured channel.
func (c *Channels) Has(id string) bool {
	for _, ch := range c.channels {
		if ch.ID == id {
			return true
		}
	}
	return false
}
