package http

import (
	"encoding/json"

	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a hub command. A non-nil
// proto.Error means the request was understood but rejected; a non-nil
// error means the frame was not decodable at all.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Event {
	case proto.EventCreateRoom:
		var create proto.CreateRoomData
		if err := json.Unmarshal(inbound.Data, &create); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:        core.CommandCreateRoom,
			DisplayName: create.DisplayName,
		}, nil, nil
	case proto.EventJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind:        core.CommandJoinRoom,
			Room:        join.RoomID,
			DisplayName: join.DisplayName,
		}, nil, nil
	case proto.EventSignal:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, nil, err
		}
		if sig.TargetConnectionID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "targetConnectionId is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSignal,
			Room:    sig.RoomID,
			Target:  sig.TargetConnectionID,
			Payload: sig.Payload,
		}, nil, nil
	case proto.EventUpdateStatus:
		var status proto.UpdateStatusData
		if err := json.Unmarshal(inbound.Data, &status); err != nil {
			return nil, nil, err
		}
		if status.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandUpdateStatus,
			Room: status.RoomID,
			Status: core.Status{
				Muted:    status.Muted,
				VideoOff: status.VideoOff,
			},
		}, nil, nil
	case proto.EventSendChat:
		var chat proto.ChatData
		if err := json.Unmarshal(inbound.Data, &chat); err != nil {
			return nil, nil, err
		}
		if chat.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSendChat,
			Room:    chat.RoomID,
			Message: chat.Message,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown event"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventConnected:
		return proto.Outbound{
			Event: proto.EventConnected,
			Data:  proto.ConnectedData{ConnectionID: event.ConnectionID},
		}
	case core.EventRoomCreated:
		return proto.Outbound{
			Event: proto.EventRoomCreated,
			Data:  proto.RoomCreatedData{RoomID: event.Room},
		}
	case core.EventRoomJoined:
		members := make([]proto.MemberData, 0, len(event.Members))
		for _, m := range event.Members {
			members = append(members, proto.MemberData{
				ConnectionID: m.ConnectionID,
				DisplayName:  m.DisplayName,
			})
		}
		return proto.Outbound{
			Event: proto.EventRoomJoined,
			Data: proto.RoomJoinedData{
				RoomID:  event.Room,
				Members: members,
			},
		}
	case core.EventRoomNotFound:
		return proto.Outbound{
			Event: proto.EventRoomNotFound,
			Data:  proto.RoomNotFoundData{RoomID: event.Room},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Event: proto.EventUserJoined,
			Data: proto.UserJoinedData{
				ConnectionID: event.ConnectionID,
				DisplayName:  event.DisplayName,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Event: proto.EventUserLeft,
			Data:  proto.UserLeftData{ConnectionID: event.ConnectionID},
		}
	case core.EventSignal:
		return proto.Outbound{
			Event: proto.EventSignal,
			Data: proto.SignalEventData{
				SenderConnectionID: event.ConnectionID,
				Payload:            event.Payload,
			},
		}
	case core.EventStatusChanged:
		return proto.Outbound{
			Event: proto.EventUpdateStatus,
			Data: proto.StatusEventData{
				ConnectionID: event.ConnectionID,
				Muted:        event.Status.Muted,
				VideoOff:     event.Status.VideoOff,
			},
		}
	case core.EventChat:
		return proto.Outbound{
			Event: proto.EventSendChat,
			Data: proto.ChatEventData{
				ConnectionID: event.ConnectionID,
				Message:      event.Message,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Event: proto.EventError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Event: proto.EventError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Event: proto.EventError, Error: &proto.Error{Code: "unknown", Msg: "unknown event kind"}}
	}
}
