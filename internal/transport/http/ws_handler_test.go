package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	nop := zerolog.Nop()
	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		ClientBuffer:      32,
	}, prometheus.NewRegistry(), &nop)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readFrame reads outbound frames until one matches the wanted event.
func readFrame(ctx context.Context, t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()

	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			t.Fatalf("read %s frame: %v", want, err)
		}
		if f.Event == want {
			return f.Data
		}
	}
}

func dialPeer(ctx context.Context, t *testing.T, wsURL string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var connected proto.ConnectedData
	if err := json.Unmarshal(readFrame(ctx, t, conn, proto.EventConnected), &connected); err != nil {
		t.Fatalf("unmarshal connected: %v", err)
	}
	if connected.ConnectionID == "" {
		t.Fatal("server assigned empty connection id")
	}
	return conn, connected.ConnectionID
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", event, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestRoomProbeUnknownRoom(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/rooms/no-such-room")
	if err != nil {
		t.Fatalf("probe request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketSignalingScenario(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA, idA := dialPeer(ctx, t, wsURL)
	defer connA.Close(websocket.StatusNormalClosure, "done")

	send(ctx, t, connA, proto.EventCreateRoom, proto.CreateRoomData{DisplayName: "Alice"})

	var created proto.RoomCreatedData
	if err := json.Unmarshal(readFrame(ctx, t, connA, proto.EventRoomCreated), &created); err != nil {
		t.Fatalf("unmarshal room-created: %v", err)
	}
	if created.RoomID == "" {
		t.Fatal("empty room id")
	}

	connB, idB := dialPeer(ctx, t, wsURL)
	send(ctx, t, connB, proto.EventJoinRoom, proto.JoinRoomData{RoomID: created.RoomID, DisplayName: "Bob"})

	var joined proto.RoomJoinedData
	if err := json.Unmarshal(readFrame(ctx, t, connB, proto.EventRoomJoined), &joined); err != nil {
		t.Fatalf("unmarshal room-joined: %v", err)
	}
	if joined.RoomID != created.RoomID || len(joined.Members) != 2 {
		t.Fatalf("unexpected room-joined: %+v", joined)
	}
	if joined.Members[0].ConnectionID != idA || joined.Members[1].ConnectionID != idB {
		t.Fatalf("members out of join order: %+v", joined.Members)
	}
	if joined.Members[1].DisplayName != "Bob" {
		t.Fatalf("joiner display name lost: %+v", joined.Members[1])
	}

	var userJoined proto.UserJoinedData
	if err := json.Unmarshal(readFrame(ctx, t, connA, proto.EventUserJoined), &userJoined); err != nil {
		t.Fatalf("unmarshal user-joined: %v", err)
	}
	if userJoined.ConnectionID != idB || userJoined.DisplayName != "Bob" {
		t.Fatalf("unexpected user-joined: %+v", userJoined)
	}

	// Targeted signal A -> B, payload forwarded verbatim.
	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n"}`)
	send(ctx, t, connA, proto.EventSignal, proto.SignalData{
		RoomID:             created.RoomID,
		TargetConnectionID: idB,
		Payload:            sdp,
	})

	var sig proto.SignalEventData
	if err := json.Unmarshal(readFrame(ctx, t, connB, proto.EventSignal), &sig); err != nil {
		t.Fatalf("unmarshal signal: %v", err)
	}
	if sig.SenderConnectionID != idA {
		t.Fatalf("signal sender should be %s, got %s", idA, sig.SenderConnectionID)
	}
	if string(sig.Payload) != string(sdp) {
		t.Fatalf("payload transformed in flight: %s", sig.Payload)
	}

	// Chat from B reaches A tagged with B's id.
	send(ctx, t, connB, proto.EventSendChat, proto.ChatData{RoomID: created.RoomID, Message: "hey"})

	var chat proto.ChatEventData
	if err := json.Unmarshal(readFrame(ctx, t, connA, proto.EventSendChat), &chat); err != nil {
		t.Fatalf("unmarshal chat: %v", err)
	}
	if chat.ConnectionID != idB || chat.Message != "hey" {
		t.Fatalf("unexpected chat: %+v", chat)
	}

	// Status update from B reaches A.
	send(ctx, t, connB, proto.EventUpdateStatus, proto.UpdateStatusData{
		RoomID: created.RoomID,
		Muted:  true,
	})

	var status proto.StatusEventData
	if err := json.Unmarshal(readFrame(ctx, t, connA, proto.EventUpdateStatus), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.ConnectionID != idB || !status.Muted || status.VideoOff {
		t.Fatalf("unexpected status: %+v", status)
	}

	// The probe sees the live room.
	resp, err := ts.Client().Get(ts.URL + "/api/rooms/" + created.RoomID)
	if err != nil {
		t.Fatalf("probe request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("probe status: %d", resp.StatusCode)
	}

	// B drops; A learns about it and the room survives.
	connB.Close(websocket.StatusNormalClosure, "bye")

	var left proto.UserLeftData
	if err := json.Unmarshal(readFrame(ctx, t, connA, proto.EventUserLeft), &left); err != nil {
		t.Fatalf("unmarshal user-left: %v", err)
	}
	if left.ConnectionID != idB {
		t.Fatalf("unexpected user-left: %+v", left)
	}
}

func TestWebSocketJoinUnknownRoom(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dialPeer(ctx, t, wsURL)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	send(ctx, t, conn, proto.EventJoinRoom, proto.JoinRoomData{
		RoomID:      "deadbeef-0000-0000-0000-000000000000",
		DisplayName: "Carol",
	})

	var notFound proto.RoomNotFoundData
	if err := json.Unmarshal(readFrame(ctx, t, conn, proto.EventRoomNotFound), &notFound); err != nil {
		t.Fatalf("unmarshal room-not-found: %v", err)
	}
}

func TestWebSocketUnknownEventAnswered(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dialPeer(ctx, t, wsURL)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: "warp", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var f frame
	if err := wsjson.Read(ctx, conn, &f); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if f.Event != proto.EventError || f.Error == nil || f.Error.Code != core.ErrCodeInvalidMessage {
		t.Fatalf("expected invalid_message error, got %+v", f)
	}
}
