// Package proto defines the JSON wire contract between clients and the
// relay: an {event,data} envelope in both directions.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client-to-server event names.
const (
	EventCreateRoom   = "create-room"
	EventJoinRoom     = "join-room"
	EventSignal       = "signal"
	EventUpdateStatus = "update-status"
	EventSendChat     = "send-chat"
)

// Server-to-client event names. Signal, update-status and send-chat are
// reused in both directions with different payload shapes.
const (
	EventConnected    = "connected"
	EventRoomCreated  = "room-created"
	EventRoomJoined   = "room-joined"
	EventRoomNotFound = "room-not-found"
	EventUserJoined   = "user-joined"
	EventUserLeft     = "user-left"
	EventError        = "error"
)

// CreateRoomData opens a new room for the caller.
type CreateRoomData struct {
	DisplayName string `json:"displayName"`
}

// JoinRoomData requests membership in an existing room.
type JoinRoomData struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
}

// SignalData asks the relay to forward an opaque payload (a session
// description or ICE candidate) to one target connection. RoomID is
// carried for symmetry with the original protocol; the relay does not
// consult it.
type SignalData struct {
	RoomID             string          `json:"roomId,omitempty"`
	TargetConnectionID string          `json:"targetConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

// UpdateStatusData reports the caller's mute/video state.
type UpdateStatusData struct {
	RoomID   string `json:"roomId"`
	Muted    bool   `json:"muted"`
	VideoOff bool   `json:"videoOff"`
}

// ChatData is a chat message for the caller's room peers.
type ChatData struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ConnectedData tells a client the connection id it was assigned.
type ConnectedData struct {
	ConnectionID string `json:"connectionId"`
}

// RoomCreatedData confirms room creation.
type RoomCreatedData struct {
	RoomID string `json:"roomId"`
}

// MemberData is one room member as seen on the wire.
type MemberData struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

// RoomJoinedData delivers the membership snapshot to a joiner, the
// joiner included, in join order.
type RoomJoinedData struct {
	RoomID  string       `json:"roomId"`
	Members []MemberData `json:"members"`
}

// RoomNotFoundData is the reply to a join against an unknown room id.
type RoomNotFoundData struct {
	RoomID string `json:"roomId"`
}

// UserJoinedData notifies existing members about a new member.
type UserJoinedData struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

// UserLeftData notifies remaining members about a departure.
type UserLeftData struct {
	ConnectionID string `json:"connectionId"`
}

// SignalEventData is a forwarded payload, tagged with its sender.
type SignalEventData struct {
	SenderConnectionID string          `json:"senderConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

// StatusEventData broadcasts a member's new mute/video state.
type StatusEventData struct {
	ConnectionID string `json:"connectionId"`
	Muted        bool   `json:"muted"`
	VideoOff     bool   `json:"videoOff"`
}

// ChatEventData delivers a chat message, tagged with its sender.
type ChatEventData struct {
	ConnectionID string `json:"connectionId"`
	Message      string `json:"message"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
