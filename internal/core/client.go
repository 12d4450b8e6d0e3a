package core

// Client is one live connection as seen by the relay core. The transport
// layer feeds inbound requests into Commands in arrival order and drains
// Events back to the wire.
type Client struct {
	ID string

	// Room is the id of the room the client currently belongs to, or ""
	// while roomless. Read and written only by the hub goroutine.
	Room string

	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels. buffer sizes
// the Events channel; delivery to a full buffer is dropped rather than
// blocking the hub.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, buffer),
	}
}
