package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

type handlers struct {
	orch *orch.Orchestrator
}

type healthResponse struct {
	Status      string `json:"status"`
	Rooms       int    `json:"rooms"`
	Connections int    `json:"connections"`
}

type roomURI struct {
	Name string `uri:"name" binding:"required"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Rooms:       len(h.orch.Rooms.List()),
		Connections: h.orch.Registry.Count(),
	})
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

func (h *handlers) getRoom(c *gin.Context) {
	var req roomURI
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid room name"})
		return
	}
	name, err := domain.ParseRoomName(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, ok := h.orch.Rooms.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, roomResponse{Info: room.Info(), State: room.Snapshot()})
}

type roomResponse struct {
	Info  core.RoomInfo     `json:"info"`
	State core.RoomSnapshot `json:"state"`
}
