package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventConnected tells a client its assigned connection id.
	EventConnected EventKind = iota
	// EventRoomCreated confirms room creation to the creator.
	EventRoomCreated
	// EventRoomJoined delivers the full membership list to a joiner.
	EventRoomJoined
	// EventRoomNotFound tells a joiner the room id does not exist.
	EventRoomNotFound
	// EventUserJoined notifies existing members about a new member.
	EventUserJoined
	// EventUserLeft notifies remaining members about a departure.
	EventUserLeft
	// EventSignal carries a forwarded signaling payload to its target.
	EventSignal
	// EventStatusChanged notifies room peers about a status update.
	EventStatusChanged
	// EventChat delivers a chat message to room peers.
	EventChat
	// EventError notifies a client about a rejected request.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind
	Room string

	// ConnectionID is the subject of the event: the joiner, the leaver,
	// the signal sender, or the client's own id for EventConnected.
	ConnectionID string
	DisplayName  string

	Members []Member // EventRoomJoined snapshot, join order
	Payload json.RawMessage
	Status  Status
	Message string
	Error   *CoreError
}
