// Package ws multiplexes the trading API's WebSocket feed: many listeners
// share one connection, keyed by topic string. The connection is dialed on
// the first subscription, resubscribed after reconnects, and torn down a
// grace period after the last listener leaves.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	// graceClosePeriod is how long an idle connection is kept after the
	// last unsubscribe, so subscribe/unsubscribe churn does not redial.
	graceClosePeriod = 500 * time.Millisecond

	maxReconnectDelay = 60 * time.Second
	writeTimeout      = 5 * time.Second
)

// Listener receives the payload of one message on a subscribed topic.
// Listeners run serially on the read loop, in arrival order.
type Listener func(data json.RawMessage)

// Client multiplexes topic subscriptions over one WebSocket connection.
type Client struct {
	url    string
	apiKey string

	onError         func(topic string, err error)
	listenerTimeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	topics map[string]map[int64]Listener
	nextID int64
	closed bool

	graceTimer *time.Timer

	// generation invalidates read loops of replaced connections
	generation int
	wg         sync.WaitGroup

	// stop cancels reconnect backoff sleeps when the client closes
	stop chan struct{}
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey authenticates the connection. The key travels as a WebSocket
// subprotocol.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithErrorHandler replaces the default log-based handler for listener
// panics and protocol errors.
func WithErrorHandler(handler func(topic string, err error)) ClientOption {
	return func(c *Client) { c.onError = handler }
}

// WithListenerTimeout bounds how long one listener may run before dispatch
// moves on. Zero (the default) means listeners are trusted to return.
func WithListenerTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.listenerTimeout = timeout }
}

// NewClient creates a client for the given WebSocket URL. No connection is
// made until the first Subscribe.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:    url,
		topics: make(map[string]map[int64]Listener),
		stop:   make(chan struct{}),
		onError: func(topic string, err error) {
			log.Printf("ws: topic %q: %v", topic, err)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscription is a handle for one listener registration.
type Subscription struct {
	client *Client
	topic  string
	id     int64
	once   sync.Once
}

// Topic returns the subscribed topic string.
func (s *Subscription) Topic() string { return s.topic }

// Unsubscribe removes the listener. When it was the topic's last listener
// the topic is dropped on the server too; when it was the connection's last
// topic the connection closes after a grace period. Safe to call twice.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.client.unsubscribe(s.topic, s.id) })
}

// Subscribe registers a listener for a topic, dialing the connection if
// needed. The first listener on a topic triggers the server-side subscribe;
// later listeners share the stream.
func (c *Client) Subscribe(ctx context.Context, topic string, listener Listener) (*Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("ws: client is closed")
	}
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}

	if c.conn == nil {
		if err := c.dialLocked(ctx); err != nil {
			return nil, err
		}
	}

	first := c.topics[topic] == nil
	if first {
		c.topics[topic] = make(map[int64]Listener)
	}
	c.nextID++
	id := c.nextID
	c.topics[topic][id] = listener

	if first {
		if err := c.writeLocked(ctx, outboundMessage{Method: "subscribe", Topic: topic}); err != nil {
			delete(c.topics[topic], id)
			if len(c.topics[topic]) == 0 {
				delete(c.topics, topic)
			}
			return nil, err
		}
	}
	return &Subscription{client: c, topic: topic, id: id}, nil
}

// Reset drops and re-adds the topic on the server, forcing a fresh snapshot
// for feeds that replay state on subscribe. Listeners stay registered.
func (c *Client) Reset(ctx context.Context, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topics[topic] == nil || c.conn == nil {
		return fmt.Errorf("ws: not subscribed to %q", topic)
	}
	if err := c.writeLocked(ctx, outboundMessage{Method: "unsubscribe", Topic: topic}); err != nil {
		return err
	}
	return c.writeLocked(ctx, outboundMessage{Method: "subscribe", Topic: topic})
}

// Close tears the connection down and drops all listeners. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.stop)
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.topics = make(map[string]map[int64]Listener)
	c.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "client closed")
	}
	c.wg.Wait()
}

type outboundMessage struct {
	Method string `json:"method"`
	Topic  string `json:"topic"`
}

// inboundMessage is the envelope of every server message. Acks carry a
// success field and no payload; data messages carry topic and data.
type inboundMessage struct {
	Topic   string          `json:"topic"`
	Data    json.RawMessage `json:"data"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
}

func (c *Client) dialLocked(ctx context.Context) error {
	subprotocols := []string{"decibel"}
	if c.apiKey != "" {
		subprotocols = append(subprotocols, c.apiKey)
	}
	conn, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{
		Subprotocols: subprotocols,
	})
	if err != nil {
		return fmt.Errorf("ws: dialing %s: %w", c.url, err)
	}
	conn.SetReadLimit(-1)
	c.conn = conn
	c.generation++
	c.wg.Add(1)
	go c.readLoop(conn, c.generation)
	return nil
}

func (c *Client) writeLocked(ctx context.Context, msg outboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("ws: sending %s for %q: %w", msg.Method, msg.Topic, err)
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, generation int) {
	defer c.wg.Done()

	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			c.handleDisconnect(conn, generation, err)
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.onError("", fmt.Errorf("ws: malformed message: %w", err))
			continue
		}
		if msg.Success != nil {
			// subscribe/unsubscribe ack
			if !*msg.Success {
				c.onError(msg.Topic, fmt.Errorf("ws: server rejected request: %s", msg.Message))
			}
			continue
		}
		if msg.Topic == "" {
			c.onError("", fmt.Errorf("ws: message without topic: %s", truncate(data)))
			continue
		}

		payload := msg.Data
		if payload == nil {
			payload = data
		}
		c.dispatch(msg.Topic, payload)
	}
}

// dispatch delivers one message to the topic's listeners serially, so
// arrival order is preserved across messages. A panicking listener is
// isolated; the rest still run.
func (c *Client) dispatch(topic string, data json.RawMessage) {
	c.mu.Lock()
	listeners := make([]Listener, 0, len(c.topics[topic]))
	for _, listener := range c.topics[topic] {
		listeners = append(listeners, listener)
	}
	c.mu.Unlock()

	for _, listener := range listeners {
		c.invoke(topic, listener, data)
	}
}

func (c *Client) invoke(topic string, listener Listener, data json.RawMessage) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				c.onError(topic, fmt.Errorf("ws: listener panic: %v", r))
			}
		}()
		listener(data)
	}

	if c.listenerTimeout == 0 {
		run()
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()
	select {
	case <-done:
	case <-time.After(c.listenerTimeout):
		c.onError(topic, fmt.Errorf("ws: listener exceeded %s, moving on", c.listenerTimeout))
	}
}

// handleDisconnect redials with exponential backoff and resubscribes every
// topic. A normal closure or a Close race ends the loop instead.
func (c *Client) handleDisconnect(conn *websocket.Conn, generation int, readErr error) {
	c.mu.Lock()
	if c.closed || c.generation != generation {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	if websocket.CloseStatus(readErr) == websocket.StatusNormalClosure {
		return
	}
	c.onError("", fmt.Errorf("ws: connection lost: %w", readErr))

	for attempt := 0; ; attempt++ {
		delay := time.Duration(math.Min(math.Pow(1.5, float64(attempt)), maxReconnectDelay.Seconds())) * time.Second
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-c.stop:
			timer.Stop()
			return
		}

		c.mu.Lock()
		if c.closed || len(c.topics) == 0 {
			c.mu.Unlock()
			return
		}
		err := c.dialLocked(context.Background())
		if err != nil {
			c.mu.Unlock()
			c.onError("", err)
			continue
		}
		// resubscribe everything; attempt counter resets with the new
		// connection
		var failed []string
		for topic := range c.topics {
			if err := c.writeLocked(context.Background(), outboundMessage{Method: "subscribe", Topic: topic}); err != nil {
				failed = append(failed, topic)
			}
		}
		c.mu.Unlock()
		for _, topic := range failed {
			c.onError(topic, fmt.Errorf("ws: resubscribe failed after reconnect"))
		}
		return
	}
}

func (c *Client) unsubscribe(topic string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	listeners := c.topics[topic]
	if listeners == nil {
		return
	}
	delete(listeners, id)
	if len(listeners) > 0 {
		return
	}
	delete(c.topics, topic)

	if c.conn != nil {
		if err := c.writeLocked(context.Background(), outboundMessage{Method: "unsubscribe", Topic: topic}); err != nil {
			c.onError(topic, err)
		}
	}

	if len(c.topics) == 0 && c.conn != nil && !c.closed {
		if c.graceTimer != nil {
			c.graceTimer.Stop()
		}
		c.graceTimer = time.AfterFunc(graceClosePeriod, c.closeIfIdle)
	}
}

// closeIfIdle shuts the connection down unless a subscription arrived
// during the grace period.
func (c *Client) closeIfIdle() {
	c.mu.Lock()
	if c.closed || len(c.topics) > 0 || c.conn == nil {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.graceTimer = nil
	c.generation++
	c.mu.Unlock()

	conn.Close(websocket.StatusNormalClosure, "no active subscriptions")
}

func truncate(data []byte) string {
	const limit = 256
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
