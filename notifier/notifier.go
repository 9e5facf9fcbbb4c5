package notifier

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sayddii/TwitchNotify/platforms"
)

// Event announces one newly live channel. It is built once per detection and
// discarded after delivery.
type Event struct {
	ChannelID    string
	ChannelLogin string
	ChannelName  string
	Title        string
	Category     string
	StartedAt    time.Time
}

// NewEvent builds the event for a live channel.
func NewEvent(c platforms.Channel) Event {
	return Event{
		ChannelID:    c.ID,
		ChannelLogin: c.Login,
		ChannelName:  c.Name,
		Title:        c.Title,
		Category:     c.Category,
		StartedAt:    c.StartedAt,
	}
}

// URL returns the channel page on twitch.tv.
func (e Event) URL() string {
	slug := e.ChannelLogin
	if slug == "" {
		slug = e.ChannelName
	}
	return fmt.Sprintf("https://twitch.tv/%s", slug)
}

// Message renders the HTML message body sent to the chat.
func (e Event) Message() string {
	return fmt.Sprintf("🎮 %s is live!\n\n📺 %s\n🎯 %s\n🔗 %s",
		html.EscapeString(e.ChannelName),
		html.EscapeString(e.Title),
		html.EscapeString(e.Category),
		e.URL(),
	)
}

// Sender delivers an event to the configured destination. A nil error means
// the message was accepted.
type Sender interface {
	Send(ctx context.Context, e Event) error
}

// Publisher fans a delivered event out to secondary consumers. Failures never
// affect what the tracker remembers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
