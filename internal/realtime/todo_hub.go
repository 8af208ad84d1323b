package realtime

import (
	"log"
	"sync"

	"todolist/internal/models"
)

// sendBuffer is how many events may queue for one subscriber before it is
// treated as stalled and dropped.
const sendBuffer = 16

type subscriber struct {
	send chan models.TodoEvent
	done chan struct{}
}

// TodoHub fans todo change events out to every subscribed connection. Each
// subscriber has its own queue and writer goroutine, so Publish never waits
// on the network.
type TodoHub struct {
	mu   sync.RWMutex
	subs map[*Conn]*subscriber
}

func NewTodoHub() *TodoHub {
	return &TodoHub{subs: make(map[*Conn]*subscriber)}
}

func (h *TodoHub) Register(conn *Conn) {
	sub := &subscriber{
		send: make(chan models.TodoEvent, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[conn] = sub
	h.mu.Unlock()

	go h.writeLoop(conn, sub)
}

// Unregister removes the connection and closes it. Calling it again for the
// same connection is a no-op apart from the close.
func (h *TodoHub) Unregister(conn *Conn) {
	h.mu.Lock()
	sub, ok := h.subs[conn]
	delete(h.subs, conn)
	h.mu.Unlock()

	if ok {
		close(sub.done)
	}
	_ = conn.Close()
}

func (h *TodoHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish queues the event for every subscriber. A subscriber whose queue is
// full is dropped.
func (h *TodoHub) Publish(event models.TodoEvent) {
	var stalled []*Conn

	h.mu.RLock()
	for conn, sub := range h.subs {
		select {
		case sub.send <- event:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range stalled {
		log.Printf("[events][drop] subscriber queue full type=%s id=%d", event.Type, event.ID)
		// Close writes a close frame and may wait on the same stuck socket.
		go h.Unregister(conn)
	}
}

func (h *TodoHub) writeLoop(conn *Conn, sub *subscriber) {
	for {
		select {
		case <-sub.done:
			return
		case event := <-sub.send:
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[events][drop] subscriber write failed: %v", err)
				h.Unregister(conn)
				return
			}
		}
	}
}
