package application

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/dropwatch/internal/domain"
)

// Registry holds every channel the watcher knows about plus the currently
// watched one. Entries are never removed.
type Registry struct {
	mu       sync.RWMutex
	channels map[int64]*domain.Channel
	order    []int64
	watching int64
}

func NewRegistry() *Registry {
	return &Registry{channels: map[int64]*domain.Channel{}}
}

// Add stores channel unless its id is already known. It reports whether the
// channel was added.
func (r *Registry) Add(channel *domain.Channel) bool {
	if channel == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[channel.ID]; ok {
		return false
	}
	r.channels[channel.ID] = channel.Clone()
	r.order = append(r.order, channel.ID)
	return true
}

func (r *Registry) Get(id int64) (*domain.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[id]
	if !ok {
		return nil, false
	}
	return channel.Clone(), true
}

func (r *Registry) HasLogin(login string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, channel := range r.channels {
		if strings.EqualFold(channel.Login, login) {
			return true
		}
	}
	return false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// IDs returns channel ids in insertion order.
func (r *Registry) IDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Snapshot() []*domain.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]*domain.Channel, 0, len(r.order))
	for _, id := range r.order {
		channels = append(channels, r.channels[id].Clone())
	}
	return channels
}

// FirstWatchable scans in insertion order for the first channel that can be
// watched for one of games.
func (r *Registry) FirstWatchable(games domain.GameSet) (*domain.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		channel := r.channels[id]
		if channel.CanWatch(games) {
			return channel.Clone(), true
		}
	}
	return nil, false
}

// SetStream replaces the stream of a channel; a nil stream marks it offline.
func (r *Registry) SetStream(id int64, stream *domain.Stream) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[id]
	if !ok {
		return false
	}
	if stream == nil {
		channel.Stream = nil
		return true
	}
	updated := (&domain.Channel{Stream: stream}).Clone().Stream
	channel.Stream = updated
	return true
}

func (r *Registry) SetOffline(id int64) bool {
	return r.SetStream(id, nil)
}

// SetViewers updates the cached viewer count of an online channel.
func (r *Registry) SetViewers(id int64, viewers int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[id]
	if !ok || channel.Stream == nil {
		return false
	}
	channel.Stream.ViewerCount = viewers
	return true
}

// SetWatching points the watched slot at id. The online check and the
// assignment happen under one lock, so a channel marked offline is never
// selected; the caller gets domain.ErrChannelOffline and scans again.
func (r *Registry) SetWatching(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[id]
	if !ok {
		return fmt.Errorf("watch channel %d: %w", id, domain.ErrUnknownChannel)
	}
	if !channel.Online() {
		return fmt.Errorf("watch channel %s: %w", channel.Login, domain.ErrChannelOffline)
	}
	r.watching = id
	return nil
}

func (r *Registry) ClearWatching() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watching = 0
}

func (r *Registry) Watching() (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.watching, r.watching != 0
}

func (r *Registry) IsWatching(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.watching != 0 && r.watching == id
}
