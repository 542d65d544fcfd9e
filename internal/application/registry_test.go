package application

import (
	"testing"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddKeepsFirstEntry(t *testing.T) {
	t.Parallel()

	game := domain.Game{ID: "1", Name: "Rust"}
	registry := NewRegistry()
	require.True(t, registry.Add(liveChannel(1, "alpha", game)))

	replacement := liveChannel(1, "alpha", game)
	replacement.Stream.ViewerCount = 999
	assert.False(t, registry.Add(replacement))

	channel, ok := registry.Get(1)
	require.True(t, ok)
	assert.Equal(t, 10, channel.Stream.ViewerCount)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryFirstWatchableFollowsInsertionOrder(t *testing.T) {
	t.Parallel()

	rust := domain.Game{ID: "1", Name: "Rust"}
	other := domain.Game{ID: "2", Name: "Other"}
	registry := NewRegistry()

	offline := &domain.Channel{ID: 1, Login: "offline"}
	noDrops := liveChannel(2, "nodrops", rust)
	noDrops.Stream.DropsEnabled = false
	wrongGame := liveChannel(3, "wronggame", other)
	first := liveChannel(4, "first", rust)
	second := liveChannel(5, "second", rust)
	for _, channel := range []*domain.Channel{offline, noDrops, wrongGame, first, second} {
		registry.Add(channel)
	}

	games := domain.GameSet{}
	games.Add(domain.Game{ID: "1", Name: "rust"})

	channel, ok := registry.FirstWatchable(games)
	require.True(t, ok)
	assert.Equal(t, "first", channel.Login)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, registry.IDs())
}

func TestRegistryStreamUpdates(t *testing.T) {
	t.Parallel()

	game := domain.Game{ID: "1", Name: "Rust"}
	registry := NewRegistry()
	registry.Add(&domain.Channel{ID: 7, Login: "seven"})

	assert.False(t, registry.SetViewers(7, 42), "offline channels have no viewer count")

	require.True(t, registry.SetStream(7, &domain.Stream{Game: &game, DropsEnabled: true}))
	require.True(t, registry.SetViewers(7, 42))
	channel, _ := registry.Get(7)
	assert.Equal(t, 42, channel.Stream.ViewerCount)

	require.True(t, registry.SetOffline(7))
	channel, _ = registry.Get(7)
	assert.False(t, channel.Online())

	assert.False(t, registry.SetStream(99, nil))
}

func TestRegistryWatchingRequiresMember(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	err := registry.SetWatching(3)
	require.ErrorIs(t, err, domain.ErrUnknownChannel)

	registry.Add(&domain.Channel{ID: 3, Login: "three"})
	err = registry.SetWatching(3)
	require.ErrorIs(t, err, domain.ErrChannelOffline)
	assert.False(t, registry.IsWatching(3))

	registry.SetStream(3, &domain.Stream{BroadcastID: "b-3"})
	require.NoError(t, registry.SetWatching(3))
	assert.True(t, registry.IsWatching(3))

	registry.ClearWatching()
	_, ok := registry.Watching()
	assert.False(t, ok)
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Add(liveChannel(1, "alpha", domain.Game{ID: "1", Name: "Rust"}))

	channel, _ := registry.Get(1)
	channel.Stream.ViewerCount = 1

	stored, _ := registry.Get(1)
	assert.Equal(t, 10, stored.Stream.ViewerCount)
	assert.True(t, registry.HasLogin("ALPHA"))
}
