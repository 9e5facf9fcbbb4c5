// Package tracker announces each live session of a followed channel once.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sayddii/TwitchNotify/logger"
	"github.com/sayddii/TwitchNotify/metrics"
	"github.com/sayddii/TwitchNotify/notifier"
	"github.com/sayddii/TwitchNotify/platforms"
	"github.com/sayddii/TwitchNotify/state"
	"github.com/sayddii/TwitchNotify/util"
)

// Hooks are optional callbacks around each delivery.
type Hooks interface {
	OnReceive(channelID string) *util.LuaResponse
	OnSend(e *notifier.Event) *util.LuaResponse
}

type Options struct {
	// Interval between the end of one poll and the start of the next.
	Interval   time.Duration
	Publishers []notifier.Publisher
	Hooks      Hooks
	Metrics    *metrics.Metrics
	Clock      clockwork.Clock
}

type Tracker struct {
	platform   platforms.Platform
	sender     notifier.Sender
	publishers []notifier.Publisher
	hooks      Hooks
	metrics    *metrics.Metrics
	clock      clockwork.Clock
	interval   time.Duration
	prefix     string

	// only touched by the goroutine running Poll
	tracked *state.TrackedSet
}

func New(platform platforms.Platform, sender notifier.Sender, opts Options) *Tracker {
	t := &Tracker{
		platform:   platform,
		sender:     sender,
		publishers: opts.Publishers,
		hooks:      opts.Hooks,
		metrics:    opts.Metrics,
		clock:      opts.Clock,
		interval:   opts.Interval,
		prefix:     platform.GetPrefix(),
		tracked:    state.New(),
	}
	if t.metrics == nil {
		t.metrics = metrics.New()
	}
	if t.clock == nil {
		t.clock = clockwork.NewRealClock()
	}
	return t
}

func (t *Tracker) trackedIDs() []string {
	return t.tracked.IDs()
}

// Poll runs one detection cycle. The returned error is the snapshot fetch
// failure, in which case the tracked set is left as it was. Delivery failures
// are logged and retried on the next poll, they are not returned. A cancelled
// ctx abandons the cycle and returns ctx.Err() without touching the tracked set.
func (t *Tracker) Poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cycle := uuid.NewString()
	t.metrics.Polls.Inc()

	snap, err := t.platform.FetchLive(ctx)
	if err != nil {
		if isShutdown(ctx, err) {
			return ctx.Err()
		}
		t.metrics.FetchFailures.Inc()
		log.Errorf("%s [%s] Unable to fetch live channels, keeping %d tracked: %s", t.prefix, cycle, t.tracked.Len(), err)
		return err
	}

	if snap.Len() == 0 {
		log.Infof("%s [%s] No stream found", t.prefix, cycle)
	}

	next := state.NewBuilder()
	for _, id := range snap.IDs() {
		if err := ctx.Err(); err != nil {
			log.Debugf("%s [%s] Poll interrupted, tracked set left unchanged", t.prefix, cycle)
			return err
		}
		if t.tracked.Contains(id) {
			log.Debugf("%s [%s] Stream of channel %s was already sent", t.prefix, cycle, id)
			next.Add(id)
			continue
		}

		channel, _ := snap.Get(id)
		if t.announce(ctx, cycle, channel) {
			next.Add(id)
		}
	}

	t.tracked.Replace(next.Build())
	t.metrics.TrackedChannels.Set(float64(t.tracked.Len()))
	return nil
}

// announce delivers the notification for a newly live channel and reports
// whether it was accepted.
func (t *Tracker) announce(ctx context.Context, cycle string, channel platforms.Channel) bool {
	log.Infof("%s [%s] Found a new stream: %s (%s)", t.prefix, cycle, channel.Name, channel.ID)
	if t.hooks != nil {
		t.hooks.OnReceive(channel.ID)
	}

	event := notifier.NewEvent(channel)
	if err := t.sender.Send(ctx, event); err != nil {
		if isShutdown(ctx, err) {
			return false
		}
		t.metrics.NotificationFailed()
		log.Errorf("%s [%s] Wasn't able to send notification for %s, will retry next poll: %s", t.prefix, cycle, channel.Name, err)
		return false
	}
	t.metrics.NotificationSent()

	if t.hooks != nil {
		t.hooks.OnSend(&event)
	}
	for _, p := range t.publishers {
		if err := p.Publish(ctx, event); err != nil {
			log.Warnf("%s [%s] Wasn't able to publish event for %s: %s", t.prefix, cycle, channel.Name, err)
		}
	}
	return true
}

// Run polls until ctx is cancelled, waiting the configured interval after
// each poll. Poll failures never stop the loop.
func (t *Tracker) Run(ctx context.Context) {
	log.Infof("%s Checking followed streams every %s", t.prefix, t.interval)

	for {
		if err := t.Poll(ctx); isShutdown(ctx, err) {
			log.Infof("%s 🛑 Bot stopped", t.prefix)
			return
		}

		log.Debugf("%s Sleeping for %.f minutes...", t.prefix, t.interval.Minutes())
		select {
		case <-ctx.Done():
			log.Infof("%s 🛑 Bot stopped", t.prefix)
			return
		case <-t.clock.After(t.interval):
		}
	}
}

func isShutdown(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
