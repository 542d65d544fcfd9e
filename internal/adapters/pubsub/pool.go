package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/platform/retry"
	"github.com/bnema/dropwatch/internal/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultURL = "wss://pubsub-edge.twitch.tv/v1"

	// MaxTopicsPerConnection is the server-side LISTEN limit of one socket.
	MaxTopicsPerConnection = 50

	pingInterval  = 4 * time.Minute
	pongTimeout   = 10 * time.Second
	writeDeadline = 10 * time.Second
)

var _ ports.EventBus = (*Pool)(nil)

var errReconnectRequested = errors.New("server requested reconnect")

// TokenSource hands out the current access token for authenticated topics.
type TokenSource interface {
	AccessToken() string
}

type Options struct {
	URL    string
	Dialer *websocket.Dialer
	Clock  clockwork.Clock
	Retry  retry.Policy
}

// Pool spreads topic subscriptions over as many websocket connections as the
// per-connection topic limit requires.
type Pool struct {
	url    string
	dialer *websocket.Dialer
	clock  clockwork.Clock
	tokens TokenSource
	policy retry.Policy

	mu       sync.Mutex
	handlers map[string]ports.EventHandler
	topics   []domain.Topic
	conns    []*connection
	runCtx   context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewPool(tokens TokenSource, opts Options) *Pool {
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	policy := opts.Retry
	if policy.InitialBackoff == 0 {
		policy.InitialBackoff = time.Second
	}
	if policy.MaxBackoff == 0 {
		policy.MaxBackoff = 2 * time.Minute
	}
	policy.Clock = clock

	return &Pool{
		url:      url,
		dialer:   dialer,
		clock:    clock,
		tokens:   tokens,
		policy:   policy,
		handlers: make(map[string]ports.EventHandler),
	}
}

func (p *Pool) Subscribe(topic domain.Topic, handler ports.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("subscribe %s: handler is required", topic)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := topic.String()
	if _, known := p.handlers[key]; known {
		p.handlers[key] = handler
		return nil
	}
	p.handlers[key] = handler
	p.topics = append(p.topics, topic)

	if p.cancel == nil {
		return nil
	}
	p.connectionWithRoomLocked().add(topic)
	return nil
}

func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return nil
	}
	p.runCtx, p.cancel = context.WithCancel(ctx)
	for _, topic := range p.topics {
		p.connectionWithRoomLocked().add(topic)
	}
	slog.DebugContext(ctx, "pubsub started", "topics", len(p.topics), "connections", len(p.conns))
	return nil
}

func (p *Pool) Stop() error {
	p.mu.Lock()
	cancel := p.cancel
	conns := p.conns
	p.cancel = nil
	p.runCtx = nil
	p.conns = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	for _, c := range conns {
		c.close()
	}
	p.wg.Wait()
	return nil
}

// Connections reports how many sockets the pool currently owns.
func (p *Pool) Connections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

func (p *Pool) connectionWithRoomLocked() *connection {
	for _, c := range p.conns {
		if c.size() < MaxTopicsPerConnection {
			return c
		}
	}
	c := &connection{pool: p, id: len(p.conns) + 1, pong: make(chan struct{}, 1)}
	p.conns = append(p.conns, c)
	p.wg.Add(1)
	go c.run(p.runCtx)
	return c
}

func (p *Pool) dispatch(ctx context.Context, msg incoming) {
	topic, err := parseTopic(msg.Data.Topic)
	if err != nil {
		slog.WarnContext(ctx, "pubsub message with bad topic", "error", err)
		return
	}
	event, ok, err := decodeEvent(topic, msg.Data.Message)
	if err != nil {
		slog.WarnContext(ctx, "pubsub message decode failed", "topic", topic.String(), "error", err)
		return
	}
	if !ok {
		return
	}

	p.mu.Lock()
	handler := p.handlers[topic.String()]
	p.mu.Unlock()
	if handler == nil {
		return
	}
	handler(ctx, event)
}

func (p *Pool) token() string {
	if p.tokens == nil {
		return ""
	}
	return p.tokens.AccessToken()
}

type connection struct {
	pool *Pool
	id   int
	pong chan struct{}

	mu     sync.Mutex
	topics []domain.Topic
	ws     *websocket.Conn

	writeMu sync.Mutex
}

func (c *connection) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics)
}

func (c *connection) add(topic domain.Topic) {
	c.mu.Lock()
	c.topics = append(c.topics, topic)
	ws := c.ws
	c.mu.Unlock()

	if ws != nil {
		if err := c.listen(ws, topic); err != nil {
			slog.Warn("pubsub listen failed, will retry on reconnect", "connection", c.id, "topic", topic.String(), "error", err)
		}
	}
}

func (c *connection) close() {
	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws != nil {
		_ = ws.Close()
	}
}

func (c *connection) run(ctx context.Context) {
	defer c.pool.wg.Done()

	policy := c.pool.policy
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "pubsub dial failed", "connection", c.id, "attempt", attempt, "backoff", backoff, "error", err)
	}

	for {
		ws, err := retry.Do(ctx, policy, retry.AlwaysRetry, func() (*websocket.Conn, error) {
			ws, _, err := c.pool.dialer.DialContext(ctx, c.pool.url, nil)
			return ws, err
		})
		if err != nil {
			return
		}

		c.mu.Lock()
		c.ws = ws
		topics := append([]domain.Topic(nil), c.topics...)
		c.mu.Unlock()

		for _, topic := range topics {
			if err := c.listen(ws, topic); err != nil {
				slog.WarnContext(ctx, "pubsub listen failed", "connection", c.id, "topic", topic.String(), "error", err)
			}
		}

		err = c.serve(ctx, ws)

		c.mu.Lock()
		c.ws = nil
		c.mu.Unlock()
		_ = ws.Close()

		if ctx.Err() != nil {
			return
		}
		slog.WarnContext(ctx, "pubsub connection lost, reconnecting", "connection", c.id, "error", err)
	}
}

func (c *connection) serve(ctx context.Context, ws *websocket.Conn) error {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-serveCtx.Done()
		_ = ws.Close()
	}()
	go c.keepalive(serveCtx, ws)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}

		var msg incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.WarnContext(ctx, "pubsub frame decode failed", "connection", c.id, "error", err)
			continue
		}

		switch msg.Type {
		case typePong:
			select {
			case c.pong <- struct{}{}:
			default:
			}
		case typeReconnect:
			return errReconnectRequested
		case typeResponse:
			if msg.Error != "" {
				slog.WarnContext(ctx, "pubsub listen rejected", "connection", c.id, "nonce", msg.Nonce, "error", msg.Error)
			}
		case typeMessage:
			c.pool.dispatch(ctx, msg)
		}
	}
}

func (c *connection) keepalive(ctx context.Context, ws *websocket.Conn) {
	clock := c.pool.clock
	ticker := clock.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		select {
		case <-c.pong:
		default:
		}
		if err := c.write(ws, outgoing{Type: typePing}); err != nil {
			_ = ws.Close()
			return
		}

		timer := clock.NewTimer(pongTimeout)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-c.pong:
			timer.Stop()
		case <-timer.Chan():
			slog.WarnContext(ctx, "pubsub pong timeout", "connection", c.id)
			_ = ws.Close()
			return
		}
	}
}

func (c *connection) listen(ws *websocket.Conn, topic domain.Topic) error {
	data := &listenData{Topics: []string{topic.String()}}
	if topic.RequiresAuth() {
		data.AuthToken = c.pool.token()
	}
	return c.write(ws, outgoing{Type: typeListen, Nonce: uuid.NewString(), Data: data})
}

func (c *connection) write(ws *websocket.Conn, msg outgoing) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(writeDeadline))
	return ws.WriteJSON(msg)
}
