package application

import (
	"bytes"
	"context"
	"sync"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
)

type fakeTwitchAPI struct {
	mu sync.Mutex

	inventories    [][]domain.DropsCampaign
	inventoryCalls int
	live           map[string][]*domain.Channel
	byLogin        map[string]*domain.Channel
	streams        map[string]*domain.Stream

	streamCalls  []string
	claimedDrops []string
	pings        []string
	pointsCalls  int
	pointsClaims []string
	pointsClaim  string
}

func newFakeTwitchAPI() *fakeTwitchAPI {
	return &fakeTwitchAPI{
		live:    map[string][]*domain.Channel{},
		byLogin: map[string]*domain.Channel{},
		streams: map[string]*domain.Stream{},
	}
}

func (f *fakeTwitchAPI) Inventory(context.Context) ([]domain.DropsCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inventoryCalls++
	if len(f.inventories) == 0 {
		return nil, nil
	}
	idx := f.inventoryCalls - 1
	if idx >= len(f.inventories) {
		idx = len(f.inventories) - 1
	}
	return f.inventories[idx], nil
}

func (f *fakeTwitchAPI) ClaimDrop(_ context.Context, dropInstanceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimedDrops = append(f.claimedDrops, dropInstanceID)
	return nil
}

func (f *fakeTwitchAPI) LiveChannels(_ context.Context, game domain.Game, _ int, _ []string) ([]*domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channels := make([]*domain.Channel, 0, len(f.live[game.Name]))
	for _, channel := range f.live[game.Name] {
		channels = append(channels, channel.Clone())
	}
	return channels, nil
}

func (f *fakeTwitchAPI) ChannelByLogin(_ context.Context, login string) (*domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, ok := f.byLogin[login]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	return channel.Clone(), nil
}

func (f *fakeTwitchAPI) Stream(_ context.Context, login string) (*domain.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.streamCalls = append(f.streamCalls, login)
	stream, ok := f.streams[login]
	if !ok || stream == nil {
		return nil, nil
	}
	copied := *stream
	return &copied, nil
}

func (f *fakeTwitchAPI) SendWatch(_ context.Context, channel domain.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings = append(f.pings, channel.Login)
	return nil
}

func (f *fakeTwitchAPI) PointsContext(_ context.Context, _ string) (domain.PointsContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointsCalls++
	return domain.PointsContext{Balance: 100, AvailableClaimID: f.pointsClaim}, nil
}

func (f *fakeTwitchAPI) ClaimPoints(_ context.Context, _ int64, claimID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointsClaims = append(f.pointsClaims, claimID)
	return nil
}

func (f *fakeTwitchAPI) setStream(login string, stream *domain.Stream) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams[login] = stream
}

func (f *fakeTwitchAPI) inventoryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inventoryCalls
}

func (f *fakeTwitchAPI) streamCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.streamCalls)
}

func (f *fakeTwitchAPI) pingsSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pings...)
}

func (f *fakeTwitchAPI) lastPing() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pings) == 0 {
		return ""
	}
	return f.pings[len(f.pings)-1]
}

func (f *fakeTwitchAPI) pointsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pointsCalls
}

func (f *fakeTwitchAPI) claimedDropsSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.claimedDrops...)
}

type fakeBus struct {
	mu       sync.Mutex
	handlers map[string]ports.EventHandler
	starts   int
	stops    int
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: map[string]ports.EventHandler{}}
}

func (b *fakeBus) Subscribe(topic domain.Topic, handler ports.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic.String()] = handler
	return nil
}

func (b *fakeBus) Start(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
	return nil
}

func (b *fakeBus) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stops++
	return nil
}

func (b *fakeBus) publish(ctx context.Context, topic domain.Topic, event domain.Event) bool {
	b.mu.Lock()
	handler, ok := b.handlers[topic.String()]
	b.mu.Unlock()
	if !ok {
		return false
	}
	event.Topic = topic
	handler(ctx, event)
	return true
}

func (b *fakeBus) subscribed(topic domain.Topic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[topic.String()]
	return ok
}

func (b *fakeBus) startCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.starts
}

type staticIdentity int64

func (i staticIdentity) UserID() int64 {
	return int64(i)
}

type memoryJar struct {
	mu      sync.Mutex
	cookies map[string]domain.Cookies
	saves   int
}

func newMemoryJar() *memoryJar {
	return &memoryJar{cookies: map[string]domain.Cookies{}}
}

func (j *memoryJar) Cookies(host string) domain.Cookies {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies[host].Clone()
}

func (j *memoryJar) SetCookies(host string, cookies domain.Cookies) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[host] = cookies.Clone()
}

func (j *memoryJar) ClearDomain(host string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, host)
}

func (j *memoryJar) Save(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saves++
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func liveChannel(id int64, login string, game domain.Game) *domain.Channel {
	return &domain.Channel{
		ID:    id,
		Login: login,
		Stream: &domain.Stream{
			BroadcastID:  "b-" + login,
			Game:         &game,
			ViewerCount:  10,
			DropsEnabled: true,
		},
	}
}

func earnableCampaign(game domain.Game) domain.DropsCampaign {
	return domain.DropsCampaign{
		ID:     "campaign-" + game.ID,
		Name:   game.Name + " drops",
		Game:   game,
		Status: domain.CampaignStatusActive,
		TimedDrops: []domain.TimedDrop{
			{ID: "drop-" + game.ID, Name: "Reward", CurrentMinutes: 10, RequiredMinutes: 60},
		},
	}
}
