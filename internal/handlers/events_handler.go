package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/realtime"
)

type EventsHandler struct {
	hub *realtime.TodoHub
}

func NewEventsHandler(hub *realtime.TodoHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary      Todo change feed
// @Description  WebSocket. Each text frame is a JSON event {type, id, at}.
// @Tags         Todos
// @Success      101
// @Failure      400  {object}  ErrorResponse
// @Router       /api/todos/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("[events][upgrade][err] rid=%s %v", requestID(c), err)
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	h.hub.Register(conn)
	log.Printf("[events][subscribe] rid=%s subscribers=%d", requestID(c), h.hub.Subscribers())

	_ = conn.Drain()
	h.hub.Unregister(conn)
	log.Printf("[events][unsubscribe] rid=%s subscribers=%d", requestID(c), h.hub.Subscribers())
}
