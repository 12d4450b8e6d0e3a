package core

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/metrics"
)

// Hub is the relay engine. A single goroutine (Run) owns all protocol
// logic: it drains registrations, disconnects and client commands from
// its channels, which linearizes every room mutation. Per-connection
// ordering is inherited from each connection's read loop feeding
// Commands sequentially.
type Hub struct {
	registry *Registry
	rooms    *RoomTable
	metrics  *metrics.Metrics
	log      zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan *Command

	// clients maps connection id to live client, owned by Run.
	clients map[string]*Client
}

// NewHub creates a relay hub. A nil metrics set or logger is replaced
// with a throwaway one, which keeps tests free of wiring.
func NewHub(m *metrics.Metrics, logger *zerolog.Logger, roomCap int) *Hub {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	var lg zerolog.Logger
	if logger != nil {
		lg = *logger
	} else {
		lg = zerolog.Nop()
	}
	return &Hub{
		registry:   NewRegistry(),
		rooms:      NewRoomTable(roomCap),
		metrics:    m,
		log:        lg,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan *Command, 256),
		clients:    make(map[string]*Client),
	}
}

// RegisterClient hands a freshly accepted connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient reports a transport-level disconnect. It is the
// implicit last event for the connection: the hub purges its room
// membership and registry entry, and ignores anything queued after it.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// RoomMembers exposes a read-only membership snapshot, used by the HTTP
// room probe.
func (h *Hub) RoomMembers(roomID string) ([]Member, bool) {
	return h.rooms.Members(roomID)
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cmd := <-h.commands:
			h.handleCommand(cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	if _, ok := h.clients[c.ID]; ok {
		return
	}
	h.clients[c.ID] = c
	h.registry.Register(c.ID)
	h.metrics.ConnectionsOpen.Inc()
	h.log.Debug().Str("conn_id", c.ID).Msg("client connected")

	// Tell the client its own id; everything it sends later is keyed on it.
	h.send(c, &Event{Kind: EventConnected, ConnectionID: c.ID})

	go h.pump(c)
}

// pump forwards one client's commands into the hub's single inbox,
// preserving their arrival order. It exits when the transport closes
// the Commands channel.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		cmd.Client = c
		h.commands <- cmd
	}
}

func (h *Hub) handleCommand(cmd *Command) {
	c := cmd.Client
	if c == nil {
		return
	}
	// Commands racing a disconnect lose: once the client is purged the
	// hub processes nothing further from it.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreateRoom(c, cmd.DisplayName)
	case CommandJoinRoom:
		h.handleJoinRoom(c, cmd.Room, cmd.DisplayName)
	case CommandSignal:
		h.handleSignal(c, cmd)
	case CommandUpdateStatus:
		h.handleUpdateStatus(c, cmd)
	case CommandSendChat:
		h.handleSendChat(c, cmd)
	}
}

func (h *Hub) handleCreateRoom(c *Client, displayName string) {
	h.leaveCurrentRoom(c)

	roomID := h.rooms.Create(Member{ConnectionID: c.ID, DisplayName: displayName})
	h.registry.SetIdentity(c.ID, displayName)
	c.Room = roomID
	h.metrics.RoomsOpen.Inc()

	h.log.Info().
		Str("room_id", roomID).
		Str("conn_id", c.ID).
		Str("display_name", displayName).
		Msg("room created")

	h.send(c, &Event{Kind: EventRoomCreated, Room: roomID})
}

func (h *Hub) handleJoinRoom(c *Client, roomID, displayName string) {
	// Rejoining the current room is answered with a fresh snapshot and
	// no membership change.
	if c.Room == roomID && roomID != "" {
		if members, ok := h.rooms.Members(roomID); ok {
			h.send(c, &Event{Kind: EventRoomJoined, Room: roomID, Members: members})
			return
		}
	}

	// A connection belongs to at most one room; entering a new one
	// leaves the old one first.
	h.leaveCurrentRoom(c)

	err := h.rooms.Join(roomID, Member{ConnectionID: c.ID, DisplayName: displayName})
	switch err {
	case nil:
	case ErrRoomNotFound:
		h.log.Debug().Str("room_id", roomID).Str("conn_id", c.ID).Msg("join to unknown room")
		h.send(c, &Event{Kind: EventRoomNotFound, Room: roomID})
		return
	case ErrRoomFull:
		h.send(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeRoomFull, "room is full")})
		return
	default:
		h.send(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeBadRequest, err.Error())})
		return
	}

	h.registry.SetIdentity(c.ID, displayName)
	c.Room = roomID

	h.log.Info().
		Str("room_id", roomID).
		Str("conn_id", c.ID).
		Str("display_name", displayName).
		Msg("user joined room")

	// Membership is already updated, so the snapshot below includes the
	// joiner and the user-joined broadcast cannot be observed before the
	// table reflects it.
	members, ok := h.rooms.Members(roomID)
	if !ok {
		return
	}
	h.send(c, &Event{Kind: EventRoomJoined, Room: roomID, Members: members})

	h.metrics.Broadcasts.WithLabelValues("join").Inc()
	h.broadcast(members, c.ID, &Event{
		Kind:         EventUserJoined,
		Room:         roomID,
		ConnectionID: c.ID,
		DisplayName:  displayName,
	})
}

func (h *Hub) handleSignal(c *Client, cmd *Command) {
	target, ok := h.clients[cmd.Target]
	if !ok {
		// Stale target: fire and forget, nothing to tell the sender.
		h.metrics.SignalsDropped.Inc()
		h.log.Debug().Str("conn_id", c.ID).Str("target", cmd.Target).Msg("signal target gone")
		return
	}
	h.metrics.SignalsRelayed.Inc()
	h.send(target, &Event{
		Kind:         EventSignal,
		ConnectionID: c.ID,
		Payload:      cmd.Payload,
	})
}

func (h *Hub) handleUpdateStatus(c *Client, cmd *Command) {
	// Status updates from connections that never entered a room are
	// silently ignored.
	if !h.registry.SetStatus(c.ID, cmd.Status) {
		return
	}
	members, ok := h.rooms.Members(cmd.Room)
	if !ok {
		return
	}
	h.metrics.Broadcasts.WithLabelValues("status").Inc()
	h.broadcast(members, c.ID, &Event{
		Kind:         EventStatusChanged,
		Room:         cmd.Room,
		ConnectionID: c.ID,
		Status:       cmd.Status,
	})
}

func (h *Hub) handleSendChat(c *Client, cmd *Command) {
	members, ok := h.rooms.Members(cmd.Room)
	if !ok {
		return
	}
	h.metrics.Broadcasts.WithLabelValues("chat").Inc()
	h.broadcast(members, c.ID, &Event{
		Kind:         EventChat,
		Room:         cmd.Room,
		ConnectionID: c.ID,
		Message:      cmd.Message,
	})
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	h.leaveCurrentRoom(c)
	h.registry.Remove(c.ID)
	delete(h.clients, c.ID)
	h.metrics.ConnectionsOpen.Dec()
	close(c.Events)
	h.log.Debug().Str("conn_id", c.ID).Msg("client disconnected")
}

// leaveCurrentRoom removes the client from its room, deleting the room
// when it empties and otherwise notifying the remaining members.
func (h *Hub) leaveCurrentRoom(c *Client) {
	if c.Room == "" {
		return
	}
	roomID := c.Room
	c.Room = ""

	remaining, existed := h.rooms.Leave(roomID, c.ID)
	if !existed {
		return
	}
	if len(remaining) == 0 {
		h.metrics.RoomsOpen.Dec()
		h.log.Info().Str("room_id", roomID).Msg("room deleted")
		return
	}
	h.metrics.Broadcasts.WithLabelValues("leave").Inc()
	h.broadcast(remaining, c.ID, &Event{
		Kind:         EventUserLeft,
		Room:         roomID,
		ConnectionID: c.ID,
	})
}

// broadcast delivers the event to every listed member except the sender.
// Delivery is per-recipient best effort: a missing or slow member never
// blocks the others.
func (h *Hub) broadcast(members []Member, except string, ev *Event) {
	for _, m := range members {
		if m.ConnectionID == except {
			continue
		}
		if target, ok := h.clients[m.ConnectionID]; ok {
			h.send(target, ev)
		}
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Slow consumer, drop rather than stall the hub.
		h.metrics.EventsDropped.Inc()
	}
}
