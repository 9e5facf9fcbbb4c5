package util

import (
	"context"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/jonboulle/clockwork"
	"github.com/sayddii/TwitchNotify/config"
	log "github.com/sayddii/TwitchNotify/logger"
)

type pingClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// KeepAlive periodically requests the service's own public address so that
// free hosting tiers do not idle it out. Every failure is ignored.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   pingClient
	clock    clockwork.Clock
}

// NewKeepAlive returns a pinger for cfg. It is disabled (Run returns at once)
// unless the service runs on Render with a known external hostname.
func NewKeepAlive(cfg *config.Config, clock clockwork.Clock) (*KeepAlive, error) {
	k := &KeepAlive{
		url:      cfg.KeepAliveURL(),
		interval: cfg.Notifier.KeepAliveInterval,
		clock:    clock,
	}
	if k.url == "" {
		return k, nil
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithTimeoutSeconds(int(cfg.Notifier.RequestTimeout.Seconds())),
		tls_client.WithClientProfile(tls_client.Chrome_110),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a TLS client: %w", err)
	}
	k.client = client
	return k, nil
}

func (k *KeepAlive) Enabled() bool {
	return k.url != ""
}

// Run pings every interval until ctx is cancelled.
func (k *KeepAlive) Run(ctx context.Context) {
	if !k.Enabled() {
		log.Debugf("[keepalive] Not running on Render, self-ping disabled")
		return
	}

	log.Infof("[keepalive] Pinging %s every %s", k.url, k.interval)
	for {
		k.ping(ctx)

		select {
		case <-ctx.Done():
			return
		case <-k.clock.After(k.interval):
		}
	}
}

func (k *KeepAlive) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return
	}

	resp, err := k.client.Do(req)
	if err != nil {
		log.Debugf("[keepalive] Ping failed: %s", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}
