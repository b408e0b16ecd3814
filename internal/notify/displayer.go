package notify

import (
	"context"
	"log"
	"sync"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// LogDisplayer shows notifications in the log and remembers them. It also
// stands in for the OS tray: the last notification set with SetLaunch is
// reported once by InitialNotification.
type LogDisplayer struct {
	mu        sync.Mutex
	channels  []model.Channel
	displayed []model.Notification
	launch    *model.Notification
}

func NewLogDisplayer() *LogDisplayer {
	return &LogDisplayer{}
}

func (l *LogDisplayer) CreateChannel(_ context.Context, ch model.Channel) error {
	l.mu.Lock()
	l.channels = append(l.channels, ch)
	l.mu.Unlock()
	log.Printf("[Tray] Channel %s (%s, importance=%s)", ch.ID, ch.Name, ch.Importance)
	return nil
}

func (l *LogDisplayer) Display(_ context.Context, n model.Notification) error {
	l.mu.Lock()
	l.displayed = append(l.displayed, n)
	l.mu.Unlock()
	log.Printf("[Tray] [%s] %s: %s %v", n.ChannelID, n.Title, n.Body, n.Data)
	return nil
}

// SetLaunch records the notification the app is launched from.
func (l *LogDisplayer) SetLaunch(n model.Notification) {
	l.mu.Lock()
	l.launch = &n
	l.mu.Unlock()
}

// InitialNotification returns the launch notification once.
func (l *LogDisplayer) InitialNotification(context.Context) (*model.Notification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.launch
	l.launch = nil
	return n, nil
}

// Channels returns the channels created so far.
func (l *LogDisplayer) Channels() []model.Channel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Channel(nil), l.channels...)
}

// Displayed returns every notification shown so far.
func (l *LogDisplayer) Displayed() []model.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Notification(nil), l.displayed...)
}
