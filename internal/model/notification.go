package model

import (
	"time"
)

// Display hint keys carried by data-only push messages
const (
	KeyTitle     = "title"
	KeyBody      = "body"
	KeyChannelID = "channelId"
)

// Navigation hint keys
const (
	KeyScreen     = "screen"
	KeyPropertyID = "propertyId"
	KeyRoomID     = "roomId"
	KeyTenantID   = "tenantId"
)

// Defaults applied when a message omits its display hints
const (
	DefaultNotificationTitle = "New Notification"
	DefaultNotificationBody  = "You have a new message"
	DefaultChannelID         = "default"
)

// Source identifies the execution context a notification was opened from
type Source string

const (
	SourceForeground Source = "foreground"
	SourceBackground Source = "background"
	SourceColdStart  Source = "cold_start"
)

// Importance mirrors the platform channel importance levels we use
type Importance string

const (
	ImportanceDefault Importance = "default"
	ImportanceHigh    Importance = "high"
)

// Channel is a local notification channel
type Channel struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Importance Importance `json:"importance" yaml:"importance"`
	Sound      string     `json:"sound" yaml:"sound"`
}

// Message is an inbound data-only push message.
// The transport carries no visual notification; everything lives in Data.
type Message struct {
	ID     string            `json:"id,omitempty"`
	Data   map[string]string `json:"data"`
	SentAt time.Time         `json:"sent_at,omitempty"`
}

// Notification is a rendered local notification
type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	ChannelID string            `json:"channel_id"`
	Data      map[string]string `json:"data,omitempty"` // navigation hints and extra keys
}

// Event is the normalized "notification opened" event consumed by the dispatcher.
// Constructed per inbound tap and discarded after dispatch.
type Event struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
	Source Source            `json:"source"`
}
