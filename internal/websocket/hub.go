package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/events"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypeSubscribed  MessageType = "subscribed"
	MessageTypeOrderEvent  MessageType = "order_event"
	MessageTypeError       MessageType = "error"
)

// ErrHubStopped is returned when publishing to a hub whose loop has exited
var ErrHubStopped = errors.New("websocket hub stopped")

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    MessageType   `json:"type"`
	OrderID string        `json:"order_id,omitempty"`
	Event   *events.Event `json:"event,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Hub maintains the set of active clients and fans order events out to
// the clients subscribed to each order.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Order subscriptions: orderID -> set of clients
	subscriptions map[uuid.UUID]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *subscriptionRequest
	unsubscribe chan *subscriptionRequest
	broadcast   chan *broadcastMessage

	// Closed when Run returns
	done chan struct{}

	// Mutex for thread-safe operations
	mu sync.RWMutex

	authorizer access.Authorizer
	logger     *slog.Logger
}

type subscriptionRequest struct {
	client  *Client
	orderID uuid.UUID
	applied chan struct{}
}

// broadcastMessage carries an event to the subscribers that still passed
// the access check when it was published.
type broadcastMessage struct {
	orderID    uuid.UUID
	message    []byte
	recipients []*Client
	revoked    []*Client
}

// NewHub creates a new Hub. Subscriptions are checked against authorizer.
func NewHub(authorizer access.Authorizer, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[uuid.UUID]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan *subscriptionRequest),
		unsubscribe:   make(chan *subscriptionRequest),
		broadcast:     make(chan *broadcastMessage, 256),
		done:          make(chan struct{}),
		authorizer:    authorizer,
		logger:        logger,
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.subscriptions = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			h.logger.Debug("websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", slog.String("user_id", client.userID.String()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				// Remove from all subscriptions
				for orderID, subscribers := range h.subscriptions {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.subscriptions, orderID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", slog.String("user_id", client.userID.String()))

		case req := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.clients[req.client]; ok {
				if h.subscriptions[req.orderID] == nil {
					h.subscriptions[req.orderID] = make(map[*Client]bool)
				}
				h.subscriptions[req.orderID][req.client] = true
			}
			h.mu.Unlock()
			close(req.applied)
			h.logger.Debug("client subscribed to order", slog.String("order_id", req.orderID.String()))

		case req := <-h.unsubscribe:
			h.mu.Lock()
			if subscribers, ok := h.subscriptions[req.orderID]; ok {
				delete(subscribers, req.client)
				if len(subscribers) == 0 {
					delete(h.subscriptions, req.orderID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("client unsubscribed from order", slog.String("order_id", req.orderID.String()))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// deliver drops revoked subscriptions and sends msg to the recipients that
// are still subscribed.
func (h *Hub) deliver(msg *broadcastMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers := h.subscriptions[msg.orderID]
	for _, client := range msg.revoked {
		delete(subscribers, client)
	}
	if len(subscribers) == 0 {
		delete(h.subscriptions, msg.orderID)
	}

	for _, client := range msg.recipients {
		if !subscribers[client] {
			continue
		}
		select {
		case client.send <- msg.message:
		default:
			// Client buffer full, skip
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe subscribes a client to an order and returns once the
// subscription is active. Callers check access first.
func (h *Hub) Subscribe(client *Client, orderID uuid.UUID) {
	req := &subscriptionRequest{client: client, orderID: orderID, applied: make(chan struct{})}
	select {
	case h.subscribe <- req:
	case <-h.done:
		return
	}
	select {
	case <-req.applied:
	case <-h.done:
	}
}

// Unsubscribe unsubscribes a client from an order
func (h *Hub) Unsubscribe(client *Client, orderID uuid.UUID) {
	select {
	case h.unsubscribe <- &subscriptionRequest{client: client, orderID: orderID}:
	case <-h.done:
	}
}

// Publish implements events.Publisher by pushing the event to the order's
// subscribers. Each subscriber's access is resolved again for every event;
// subscribers that lost view access are unsubscribed instead.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(WSMessage{
		Type:    MessageTypeOrderEvent,
		OrderID: event.OrderID.String(),
		Event:   &event,
	})
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.subscriptions[event.OrderID]))
	for client := range h.subscriptions[event.OrderID] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()
	if len(subscribers) == 0 {
		return nil
	}

	msg := &broadcastMessage{orderID: event.OrderID, message: data}
	for _, client := range subscribers {
		if h.authorizer.Resolve(ctx, client.userID, event.OrderID).CanView {
			msg.recipients = append(msg.recipients, client)
			continue
		}
		h.logger.Info("websocket subscription revoked",
			slog.String("user_id", client.userID.String()),
			slog.String("order_id", event.OrderID.String()))
		msg.revoked = append(msg.revoked, client)
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubscriberCount returns how many clients follow orderID
func (h *Hub) SubscriberCount(orderID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[orderID])
}
