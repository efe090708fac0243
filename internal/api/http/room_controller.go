package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"anoncall/internal/api/http/converter"
	"anoncall/internal/config"
	"anoncall/internal/service"
)

type RoomController struct {
	rooms  service.RoomInteractor
	webrtc config.WebRTCConfig
}

func NewRoomController(rooms service.RoomInteractor, webrtc config.WebRTCConfig) *RoomController {
	return &RoomController{rooms: rooms, webrtc: webrtc}
}

// GetRoom reports a room's current membership. A room only exists while it
// has at least one member, so an emptied room answers 404 here.
func (c *RoomController) GetRoom(ctx *gin.Context) {
	code := ctx.Param("roomID")

	members, err := c.rooms.Members(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(code, members)})
}

// GetWebRTCConfig hands the browser client the ICE server list so it does
// not have to hardcode STUN addresses.
func (c *RoomController) GetWebRTCConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"iceServers": []gin.H{
			{"urls": c.webrtc.STUNServers},
		},
	})
}
