package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom opens a fresh room with the caller as sole member.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom adds the caller to an existing room.
	CommandJoinRoom
	// CommandSignal forwards an opaque payload to one target connection.
	CommandSignal
	// CommandUpdateStatus records and broadcasts the caller's media status.
	CommandUpdateStatus
	// CommandSendChat broadcasts a chat message to the caller's room peers.
	CommandSendChat
)

// Command represents an action requested by a client. The hub processes
// each client's commands in the order they arrived.
type Command struct {
	Kind   CommandKind
	Client *Client

	Room        string
	DisplayName string
	Target      string          // signal recipient connection id
	Payload     json.RawMessage // opaque signaling payload, never inspected
	Status      Status
	Message     string // chat text
}
