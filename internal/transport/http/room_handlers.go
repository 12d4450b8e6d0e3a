package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomcast/roomcast-server/internal/core"
)

// RoomInfoResponse is the body of the room existence probe.
type RoomInfoResponse struct {
	RoomID      string `json:"roomId"`
	MemberCount int    `json:"memberCount"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// roomInfoHandler lets a client check a room id before attempting the
// websocket join. It reads through the hub's synchronized snapshot and
// deliberately does not list members; ids belong to the room's peers.
func roomInfoHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		members, ok := hub.RoomMembers(roomID)
		if !ok {
			c.JSON(stdhttp.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		c.JSON(stdhttp.StatusOK, RoomInfoResponse{
			RoomID:      roomID,
			MemberCount: len(members),
		})
	}
}
