package pubsub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

// fakeServer accepts sockets and records every frame a client sends.
type fakeServer struct {
	*httptest.Server

	mu     sync.Mutex
	conns  []*websocket.Conn
	frames []map[string]any
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	s := &fakeServer{}
	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, ws)
		s.mu.Unlock()

		for {
			var frame map[string]any
			if err := ws.ReadJSON(&frame); err != nil {
				return
			}
			s.mu.Lock()
			s.frames = append(s.frames, frame)
			s.mu.Unlock()
			if frame["type"] == typePing {
				s.mu.Lock()
				_ = ws.WriteJSON(map[string]string{"type": typePong})
				s.mu.Unlock()
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *fakeServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *fakeServer) framesOfType(kind string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]any
	for _, frame := range s.frames {
		if frame["type"] == kind {
			out = append(out, frame)
		}
	}
	return out
}

func (s *fakeServer) listenedTopics() []string {
	var topics []string
	for _, frame := range s.framesOfType(typeListen) {
		data := frame["data"].(map[string]any)
		for _, topic := range data["topics"].([]any) {
			topics = append(topics, topic.(string))
		}
	}
	return topics
}

func (s *fakeServer) send(t *testing.T, conn int, frame any) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NoError(t, s.conns[conn].WriteJSON(frame))
}

func messageFrame(topic string, inner any) map[string]any {
	payload, _ := json.Marshal(inner)
	return map[string]any{
		"type": typeMessage,
		"data": map[string]any{"topic": topic, "message": string(payload)},
	}
}

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) handle(_ context.Context, event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) snapshot() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func TestPoolListensAndDispatches(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t)
	pool := NewPool(staticToken("tok"), Options{URL: server.wsURL(), Clock: clockwork.NewFakeClock()})
	t.Cleanup(func() { _ = pool.Stop() })

	playback := &recorder{}
	drops := &recorder{}
	require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicVideoPlayback, Target: 11}, playback.handle))
	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicUserDropEvents, Target: 7}, drops.handle))

	require.Eventually(t, func() bool { return len(server.listenedTopics()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"video-playback-by-id.11", "user-drop-events.7"}, server.listenedTopics())

	listens := server.framesOfType(typeListen)
	assert.NotEmpty(t, listens[0]["nonce"])
	assert.NotContains(t, listens[0]["data"], "auth_token")
	assert.Equal(t, "tok", listens[1]["data"].(map[string]any)["auth_token"])

	server.send(t, 0, messageFrame("video-playback-by-id.11", map[string]any{"type": "viewcount", "viewers": 77}))
	server.send(t, 0, messageFrame("user-drop-events.7", map[string]any{
		"type": "drop-claim",
		"data": map[string]any{"drop_id": "d1", "drop_instance_id": "inst-1"},
	}))

	require.Eventually(t, func() bool {
		return len(playback.snapshot()) == 1 && len(drops.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.Event{Topic: domain.Topic{Kind: domain.TopicVideoPlayback, Target: 11}, Type: domain.EventViewCount, Viewers: 77}, playback.snapshot()[0])
	assert.Equal(t, "inst-1", drops.snapshot()[0].DropInstanceID)
}

func TestPoolSplitsTopicsAcrossConnections(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t)
	pool := NewPool(staticToken("tok"), Options{URL: server.wsURL(), Clock: clockwork.NewFakeClock()})
	t.Cleanup(func() { _ = pool.Stop() })

	handler := (&recorder{}).handle
	for i := range MaxTopicsPerConnection + 1 {
		require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicVideoPlayback, Target: int64(i + 1)}, handler))
	}
	require.NoError(t, pool.Start(context.Background()))

	assert.Equal(t, 2, pool.Connections())
	require.Eventually(t, func() bool {
		return server.connCount() == 2 && len(server.listenedTopics()) == MaxTopicsPerConnection+1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoolPingsOnInterval(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t)
	clock := clockwork.NewFakeClock()
	pool := NewPool(staticToken("tok"), Options{URL: server.wsURL(), Clock: clock})
	t.Cleanup(func() { _ = pool.Stop() })

	require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicVideoPlayback, Target: 1}, (&recorder{}).handle))
	require.NoError(t, pool.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(pingInterval)

	require.Eventually(t, func() bool { return len(server.framesOfType(typePing)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, server.connCount())
}

func TestPoolReconnectsAndRelistens(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t)
	clock := clockwork.NewFakeClock()
	pool := NewPool(staticToken("tok"), Options{URL: server.wsURL(), Clock: clock})
	t.Cleanup(func() { _ = pool.Stop() })

	require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicVideoPlayback, Target: 5}, (&recorder{}).handle))
	require.NoError(t, pool.Start(context.Background()))
	require.Eventually(t, func() bool { return len(server.listenedTopics()) == 1 }, time.Second, 5*time.Millisecond)

	server.send(t, 0, map[string]string{"type": typeReconnect})

	require.Eventually(t, func() bool {
		return len(server.listenedTopics()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"video-playback-by-id.5", "video-playback-by-id.5"}, server.listenedTopics())
}

func TestPoolStopIsIdempotentAndRestartable(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t)
	pool := NewPool(staticToken("tok"), Options{URL: server.wsURL(), Clock: clockwork.NewFakeClock()})

	require.NoError(t, pool.Subscribe(domain.Topic{Kind: domain.TopicVideoPlayback, Target: 5}, (&recorder{}).handle))
	require.NoError(t, pool.Stop())
	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Start(context.Background()))
	require.Eventually(t, func() bool { return len(server.listenedTopics()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, pool.Stop())
	assert.Zero(t, pool.Connections())
	require.NoError(t, pool.Stop())

	require.NoError(t, pool.Start(context.Background()))
	t.Cleanup(func() { _ = pool.Stop() })
	require.Eventually(t, func() bool { return len(server.listenedTopics()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	playback := domain.Topic{Kind: domain.TopicVideoPlayback, Target: 1}
	drops := domain.Topic{Kind: domain.TopicUserDropEvents, Target: 2}

	tests := []struct {
		name    string
		topic   domain.Topic
		payload string
		want    domain.Event
		ok      bool
		wantErr bool
	}{
		{name: "stream up", topic: playback, payload: `{"type":"stream-up"}`, want: domain.Event{Topic: playback, Type: domain.EventStreamUp}, ok: true},
		{name: "stream down", topic: playback, payload: `{"type":"stream-down"}`, want: domain.Event{Topic: playback, Type: domain.EventStreamDown}, ok: true},
		{name: "commercial ignored", topic: playback, payload: `{"type":"commercial"}`},
		{
			name:    "drop progress",
			topic:   drops,
			payload: `{"type":"drop-progress","data":{"drop_id":"d1","current_progress_min":5,"required_progress_min":60}}`,
			want:    domain.Event{Topic: drops, Type: domain.EventDropProgress, DropID: "d1", CurrentMinutes: 5, RequiredMinutes: 60},
			ok:      true,
		},
		{name: "bad json", topic: drops, payload: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := decodeEvent(tt.topic, tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTopic(t *testing.T) {
	t.Parallel()

	topic, err := parseTopic("video-playback-by-id.12345")
	require.NoError(t, err)
	assert.Equal(t, domain.Topic{Kind: domain.TopicVideoPlayback, Target: 12345}, topic)

	for _, raw := range []string{"", "nodot", "trailing.", "kind.abc"} {
		_, err := parseTopic(raw)
		assert.Error(t, err, raw)
	}
}
