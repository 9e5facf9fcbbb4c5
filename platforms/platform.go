package platforms

import (
	"context"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Channel is the stream metadata of one live channel.
type Channel struct {
	ID        string
	Login     string
	Name      string
	Title     string
	Category  string
	StartedAt time.Time
}

// Snapshot is the set of live followed channels as of one poll, keyed by
// channel ID. It is never modified after construction.
type Snapshot struct {
	TakenAt  time.Time
	channels map[string]Channel
}

// NewSnapshot builds a snapshot from a list of live channels. A channel listed
// twice (pages can shift while paginating) keeps its first entry.
func NewSnapshot(takenAt time.Time, channels []Channel) *Snapshot {
	s := &Snapshot{
		TakenAt:  takenAt,
		channels: make(map[string]Channel, len(channels)),
	}
	for _, c := range channels {
		if _, ok := s.channels[c.ID]; ok {
			continue
		}
		s.channels[c.ID] = c
	}
	return s
}

// Get returns the channel with the given ID.
func (s *Snapshot) Get(id string) (Channel, bool) {
	c, ok := s.channels[id]
	return c, ok
}

func (s *Snapshot) Len() int {
	return len(s.channels)
}

// IDs returns the channel IDs in ascending order.
func (s *Snapshot) IDs() []string {
	ids := maps.Keys(s.channels)
	slices.Sort(ids)
	return ids
}

// Platform reports which followed channels are live right now.
type Platform interface {
	FetchLive(ctx context.Context) (*Snapshot, error)
	GetPrefix() string
}
