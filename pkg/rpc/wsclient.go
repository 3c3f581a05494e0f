package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/fulldev0023/sns-sdk/pkg/types"
)

const (
	// Message limit for the receiving side.
	wsReadLimit = 10 * 1024 * 1024

	// Disconnection timeout.
	wsPongLimit = 60 * time.Second

	// Ping period for connection liveness check.
	wsPingPeriod = wsPongLimit / 2

	// Write deadline.
	wsWriteLimit = wsPingPeriod / 2
)

// ErrWSConnectionClosed is returned for calls made after the WebSocket
// connection terminated.
var ErrWSConnectionClosed = errors.New("connection closed")

// WSClient is a WebSocket-enabled client for the Solana pubsub API. It
// keeps a persistent connection and exposes account change
// subscriptions on top of it.
type WSClient struct {
	ws          *websocket.Conn
	log         *zap.Logger
	opts        Options
	latestReqID *atomic.Uint64

	shutdown chan struct{}
	done     chan struct{}
	requests chan *Request

	respLock  sync.Mutex
	responses map[uint64]chan *Response

	subLock       sync.RWMutex
	subscriptions map[uint64]chan *AccountNotification
	// Events for a subscription whose confirmation is still in flight:
	// the server may push the first notification before the subscriber
	// had a chance to register its channel.
	pendingEvents map[uint64][]*AccountNotification
}

// pendingEventsLimit caps buffered events per unconfirmed subscription.
const pendingEventsLimit = 16

// AccountNotification is one account change event delivered through a
// subscription.
type AccountNotification struct {
	Slot    uint64
	Account *Account
}

// AccountSubscription is a live account change subscription. Events
// arrive on C until Unsubscribe is called or the connection drops, at
// which point C is closed.
type AccountSubscription struct {
	ID uint64
	C  <-chan *AccountNotification

	client *WSClient
}

// combined is the wire form of anything the server may send: a
// response to one of our requests or a subscription notification.
type combined struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// notificationParams is the params payload of an accountNotification.
type notificationParams struct {
	Subscription uint64 `json:"subscription"`
	Result       struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value *Account `json:"value"`
	} `json:"result"`
}

// NewWS returns a new WSClient with an established connection to the
// node's pubsub endpoint (a ws:// or wss:// URL).
func NewWS(endpoint string, log *zap.Logger, opts Options) (*WSClient, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	ws, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}
	c := &WSClient{
		ws:            ws,
		log:           log,
		opts:          opts,
		latestReqID:   atomic.NewUint64(0),
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		requests:      make(chan *Request),
		responses:     make(map[uint64]chan *Response),
		subscriptions: make(map[uint64]chan *AccountNotification),
		pendingEvents: make(map[uint64][]*AccountNotification),
	}
	go c.wsReader()
	go c.wsWriter()
	c.log.Debug("pubsub connection established", zap.String("endpoint", endpoint))
	return c, nil
}

// Close terminates the connection rendering this client unusable.
func (c *WSClient) Close() {
	close(c.shutdown)
	<-c.done
}

func (c *WSClient) wsReader() {
	c.ws.SetReadLimit(wsReadLimit)
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(wsPongLimit))
	})
readloop:
	for {
		msg := new(combined)
		if err := c.ws.SetReadDeadline(time.Now().Add(wsPongLimit)); err != nil {
			break
		}
		if err := c.ws.ReadJSON(msg); err != nil {
			// Timeout, connection loss or malformed frame.
			c.log.Debug("pubsub read failed", zap.Error(err))
			break
		}
		switch {
		case msg.Method != "":
			var params notificationParams
			if err := json.Unmarshal(msg.Params, &params); err != nil {
				c.log.Warn("dropping malformed notification", zap.Error(err))
				continue
			}
			event := &AccountNotification{
				Slot:    params.Result.Context.Slot,
				Account: params.Result.Value,
			}
			c.subLock.Lock()
			if sub, ok := c.subscriptions[params.Subscription]; ok {
				select {
				case sub <- event:
				default:
					c.log.Warn("dropping notification, slow consumer",
						zap.Uint64("subscription", params.Subscription))
				}
			} else if len(c.pendingEvents[params.Subscription]) < pendingEventsLimit {
				c.pendingEvents[params.Subscription] = append(c.pendingEvents[params.Subscription], event)
			}
			c.subLock.Unlock()
		case msg.ID != nil:
			id, err := strconv.ParseUint(string(msg.ID), 10, 64)
			if err != nil {
				c.log.Warn("dropping response with bad id", zap.ByteString("id", msg.ID))
				continue
			}
			c.respLock.Lock()
			ch, ok := c.responses[id]
			delete(c.responses, id)
			c.respLock.Unlock()
			if ok {
				ch <- &Response{JSONRPC: msg.JSONRPC, ID: msg.ID, Error: msg.Error, Result: msg.Result}
			}
		default:
			// Neither a valid response, nor a valid notification.
			break readloop
		}
	}
	close(c.done)
	c.subLock.Lock()
	for id, sub := range c.subscriptions {
		close(sub)
		delete(c.subscriptions, id)
	}
	c.subLock.Unlock()
}

func (c *WSClient) wsWriter() {
	pingTicker := time.NewTicker(wsPingPeriod)
	defer c.ws.Close()
	defer pingTicker.Stop()
	for {
		select {
		case <-c.shutdown:
			return
		case <-c.done:
			return
		case req := <-c.requests:
			if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.RequestTimeout)); err != nil {
				return
			}
			if err := c.ws.WriteJSON(req); err != nil {
				c.log.Debug("pubsub write failed", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(wsWriteLimit)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// call performs one request over the socket and waits for its
// response.
func (c *WSClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	r := &Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
		ID:      c.latestReqID.Inc(),
	}
	ch := make(chan *Response, 1)
	c.respLock.Lock()
	c.responses[r.ID] = ch
	c.respLock.Unlock()
	defer func() {
		c.respLock.Lock()
		delete(c.responses, r.ID)
		c.respLock.Unlock()
	}()

	select {
	case c.requests <- r:
	case <-c.done:
		return fmt.Errorf("%s: %w", method, ErrWSConnectionClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case resp := <-ch:
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if result == nil {
			return nil
		}
		return json.Unmarshal(resp.Result, result)
	case <-c.done:
		return fmt.Errorf("%s: %w", method, ErrWSConnectionClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AccountSubscribe subscribes to changes of the account at key.
func (c *WSClient) AccountSubscribe(ctx context.Context, key types.Pubkey) (*AccountSubscription, error) {
	config := map[string]interface{}{
		"encoding":   "base64",
		"commitment": string(c.opts.Commitment),
	}
	if c.opts.Commitment == "" {
		config["commitment"] = string(CommitmentFinalized)
	}
	var id uint64
	if err := c.call(ctx, "accountSubscribe", []interface{}{key.String(), config}, &id); err != nil {
		return nil, err
	}
	events := make(chan *AccountNotification, 16)
	c.subLock.Lock()
	c.subscriptions[id] = events
	for _, event := range c.pendingEvents[id] {
		events <- event
	}
	delete(c.pendingEvents, id)
	c.subLock.Unlock()
	c.log.Debug("account subscription established",
		zap.Uint64("id", id), zap.String("account", key.String()))
	return &AccountSubscription{ID: id, C: events, client: c}, nil
}

// Unsubscribe cancels the subscription and closes its event channel.
func (s *AccountSubscription) Unsubscribe(ctx context.Context) error {
	var ok bool
	if err := s.client.call(ctx, "accountUnsubscribe", []interface{}{s.ID}, &ok); err != nil {
		return err
	}
	s.client.subLock.Lock()
	if events, present := s.client.subscriptions[s.ID]; present {
		close(events)
		delete(s.client.subscriptions, s.ID)
	}
	s.client.subLock.Unlock()
	if !ok {
		return fmt.Errorf("subscription %d was not active", s.ID)
	}
	return nil
}
