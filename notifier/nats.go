package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/sayddii/TwitchNotify/config"
	log "github.com/sayddii/TwitchNotify/logger"
)

type natsConn interface {
	Publish(subj string, data []byte) error
}

type liveMessage struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	ChannelID    string    `json:"channel_id"`
	ChannelLogin string    `json:"channel_login"`
	ChannelName  string    `json:"channel_name"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	StartedAt    time.Time `json:"started_at"`
	NotifiedAt   time.Time `json:"notified_at"`
}

// NATSPublisher publishes delivered events as JSON to "<topic>.live".
type NATSPublisher struct {
	conn    natsConn
	nc      *nats.Conn
	subject string
	clock   clockwork.Clock
}

// NewNATSPublisher connects to the configured NATS server.
func NewNATSPublisher(cfg *config.Config) (*NATSPublisher, error) {
	nc, err := nats.Connect(cfg.NATS.Host, nats.PingInterval(20*time.Second), nats.MaxPingsOutstanding(5))
	if err != nil {
		return nil, fmt.Errorf("could not connect to NATS server: %w", err)
	}
	log.Infof("Successfully connected to NATS server: %s", cfg.NATS.Host)

	p := newNATSPublisher(nc, cfg.NATS.Topic, clockwork.NewRealClock())
	p.nc = nc
	return p, nil
}

func newNATSPublisher(conn natsConn, topic string, clock clockwork.Clock) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: fmt.Sprintf("%s.live", topic),
		clock:   clock,
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(liveMessage{
		ID:           uuid.NewString(),
		Platform:     "twitch",
		ChannelID:    e.ChannelID,
		ChannelLogin: e.ChannelLogin,
		ChannelName:  e.ChannelName,
		Title:        e.Title,
		Category:     e.Category,
		URL:          e.URL(),
		StartedAt:    e.StartedAt,
		NotifiedAt:   p.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("unable to marshal event for %s: %w", e.ChannelID, err)
	}

	if err := p.conn.Publish(p.subject, b); err != nil {
		return fmt.Errorf("unable to publish event for %s: %w", e.ChannelID, err)
	}
	return nil
}

// Close drains the connection opened by NewNATSPublisher.
func (p *NATSPublisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		log.Warnf("Unable to drain NATS connection: %s", err)
	}
}
