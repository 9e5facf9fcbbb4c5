package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TrackedSet holds the channel IDs whose current live session was already
// announced. It lives for the process lifetime only.
type TrackedSet struct {
	ids map[string]bool
}

func New() *TrackedSet {
	return &TrackedSet{ids: make(map[string]bool)}
}

func (s *TrackedSet) Contains(id string) bool {
	return s.ids[id]
}

func (s *TrackedSet) Len() int {
	return len(s.ids)
}

// IDs returns the tracked IDs in ascending order.
func (s *TrackedSet) IDs() []string {
	ids := maps.Keys(s.ids)
	slices.Sort(ids)
	return ids
}

// Replace swaps the contents of s for next. The tracker builds next during a
// poll and commits it once the poll is complete.
func (s *TrackedSet) Replace(next *TrackedSet) {
	s.ids = maps.Clone(next.ids)
}

func (s *TrackedSet) add(id string) {
	s.ids[id] = true
}

// Builder accumulates the next TrackedSet during a poll.
type Builder struct {
	next *TrackedSet
}

func NewBuilder() *Builder {
	return &Builder{next: New()}
}

func (b *Builder) Add(id string) {
	b.next.add(id)
}

func (b *Builder) Build() *TrackedSet {
	return b.next
}
