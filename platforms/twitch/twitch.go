package twitch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nicklaw5/helix/v2"
	"github.com/sayddii/TwitchNotify/config"
	log "github.com/sayddii/TwitchNotify/logger"
	"github.com/sayddii/TwitchNotify/platforms"
)

const (
	pageSize = 100
	// followed streams rarely span more than a couple of pages
	maxPages = 50
)

// Options tweak how the client reaches the Helix API.
type Options struct {
	// APIBaseURL overrides the Helix endpoint, tests point it at a local server.
	APIBaseURL string
	Clock      clockwork.Clock
}

// Platform lists the live channels followed by the configured account.
type Platform struct {
	client *helix.Client
	userID string
	clock  clockwork.Clock
	prefix string
}

// New returns a new Twitch platform struct
func New(cfg *config.Config, opts Options) (*Platform, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	client, err := helix.NewClient(&helix.Options{
		ClientID:        cfg.Twitch.ClientID,
		UserAccessToken: cfg.Twitch.OAuthToken,
		APIBaseURL:      opts.APIBaseURL,
		HTTPClient: &http.Client{
			Timeout: cfg.Notifier.RequestTimeout,
		},
	})
	if err != nil {
		return nil, wrapWithTwitchError(err, "", "unable to create helix client")
	}

	return &Platform{
		client: client,
		userID: cfg.Twitch.UserID,
		clock:  clock,
		prefix: fmt.Sprintf("[%s] [%s]", platformName, helixMethod),
	}, nil
}

// GetPrefix returns a log prefix for platform p
func (p *Platform) GetPrefix() string {
	return p.prefix
}

// FetchLive returns the snapshot of followed channels that are live now. Any
// failure is returned as *Error and no partial snapshot is produced.
func (p *Platform) FetchLive(ctx context.Context) (*platforms.Snapshot, error) {
	var (
		channels []platforms.Channel
		cursor   string
	)

	for page := 0; ; page++ {
		if page == maxPages {
			return nil, wrapWithTwitchError(
				fmt.Errorf("cursor still set after %d pages", maxPages),
				"streams/followed",
				"too many pages",
			)
		}
		if err := ctx.Err(); err != nil {
			return nil, wrapWithTwitchError(err, "streams/followed", "fetch cancelled")
		}

		resp, err := p.client.GetFollowedStream(&helix.FollowedStreamsParams{
			UserID: p.userID,
			First:  pageSize,
			After:  cursor,
		})
		if err != nil {
			return nil, wrapWithTwitchError(err, "streams/followed", "request failed")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, wrapWithTwitchError(
				fmt.Errorf("%w %d: %s %s", errUnexpectedStatus, resp.StatusCode, resp.Error, resp.ErrorMessage),
				"streams/followed",
				"request rejected",
			)
		}

		for _, s := range resp.Data.Streams {
			channels = append(channels, platforms.Channel{
				ID:        s.UserID,
				Login:     s.UserLogin,
				Name:      s.UserName,
				Title:     s.Title,
				Category:  s.GameName,
				StartedAt: s.StartedAt,
			})
		}

		cursor = resp.Data.Pagination.Cursor
		if cursor == "" || len(resp.Data.Streams) == 0 {
			break
		}
		log.Debugf("%s Fetching next page of followed streams", p.prefix)
	}

	return platforms.NewSnapshot(p.clock.Now().In(time.UTC), channels), nil
}
