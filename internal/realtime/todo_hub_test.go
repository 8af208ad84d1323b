package realtime

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todolist/internal/models"
)

func serveHub(hub *TodoHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrade(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hub.Register(conn)
		_ = conn.Drain()
		hub.Unregister(conn)
	}
}

// dialWS performs the client side of the handshake and returns a reader
// positioned at the first frame.
func dialWS(t *testing.T, serverURL string) (net.Conn, *bufio.Reader) {
	t.Helper()
	return dialWSWithFrames(t, serverURL, nil)
}

// dialWSWithFrames sends the handshake and the given raw frames in a single
// write.
func dialWSWithFrames(t *testing.T, serverURL string, frames []byte) (net.Conn, *bufio.Reader) {
	t.Helper()
	addr := strings.TrimPrefix(serverURL, "http://")
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	req := fmt.Sprintf("GET /events HTTP/1.1\r\nHost: %s\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n"+
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\nSec-WebSocket-Version: 13\r\n\r\n", addr)
	if _, err := conn.Write(append([]byte(req), frames...)); err != nil {
		t.Fatalf("write handshake: %v", err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		t.Fatalf("read handshake: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Sec-WebSocket-Accept"); got != "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=" {
		t.Fatalf("unexpected accept key %q", got)
	}
	return conn, br
}

func readTextFrame(t *testing.T, conn net.Conn, br *bufio.Reader) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var header [2]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		t.Fatalf("read frame header: %v", err)
	}
	if header[0] != 0x80|opText {
		t.Fatalf("expected final text frame, got %#x", header[0])
	}
	length := int(header[1] & 0x7F)
	if length == 126 {
		var ext [2]byte
		if _, err := io.ReadFull(br, ext[:]); err != nil {
			t.Fatalf("read length: %v", err)
		}
		length = int(binary.BigEndian.Uint16(ext[:]))
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(br, payload); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	return payload
}

func waitSubscribers(t *testing.T, hub *TodoHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", n, hub.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub := NewTodoHub()
	srv := httptest.NewServer(serveHub(hub))
	defer srv.Close()

	conn, br := dialWS(t, srv.URL)
	defer conn.Close()
	waitSubscribers(t, hub, 1)

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	hub.Publish(models.TodoEvent{Type: models.EventTodoDone, ID: 7, At: at})

	var got models.TodoEvent
	if err := json.Unmarshal(readTextFrame(t, conn, br), &got); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if got.Type != models.EventTodoDone || got.ID != 7 || !got.At.Equal(at) {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewTodoHub()
	srv := httptest.NewServer(serveHub(hub))
	defer srv.Close()

	conn, _ := dialWS(t, srv.URL)
	waitSubscribers(t, hub, 1)

	// masked close frame with an empty payload
	if _, err := conn.Write([]byte{0x80 | opClose, 0x80, 1, 2, 3, 4}); err != nil {
		t.Fatalf("write close: %v", err)
	}
	waitSubscribers(t, hub, 0)
	conn.Close()
}

func TestUpgradeRejectsPlainRequest(t *testing.T) {
	hub := NewTodoHub()
	srv := httptest.NewServer(serveHub(hub))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPublishDoesNotWaitOnStalledSubscribers(t *testing.T) {
	hub := NewTodoHub()
	for i := 0; i < 2; i++ {
		server, client := net.Pipe()
		t.Cleanup(func() {
			client.Close()
			server.Close()
		})
		// nobody ever reads from client
		hub.Register(newConn(server, nil))
	}
	waitSubscribers(t, hub, 2)

	start := time.Now()
	for i := 0; i < 4*sendBuffer; i++ {
		hub.Publish(models.TodoEvent{Type: models.EventTodoUpdated, ID: int64(i)})
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish took %v with stalled subscribers", elapsed)
	}
	waitSubscribers(t, hub, 0)
}

func TestUpgradeKeepsFramesSentWithHandshake(t *testing.T) {
	hub := NewTodoHub()
	srv := httptest.NewServer(serveHub(hub))
	defer srv.Close()

	mask := [4]byte{1, 2, 3, 4}
	ping := []byte{0x80 | opPing, 0x80 | 2, mask[0], mask[1], mask[2], mask[3], 'h' ^ mask[0], 'i' ^ mask[1]}
	conn, br := dialWSWithFrames(t, srv.URL, ping)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var header [2]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		t.Fatalf("read pong header: %v", err)
	}
	if header[0] != 0x80|opPong || header[1] != 2 {
		t.Fatalf("expected pong with 2 byte payload, got %#x %#x", header[0], header[1])
	}
	payload := make([]byte, 2)
	if _, err := io.ReadFull(br, payload); err != nil {
		t.Fatalf("read pong payload: %v", err)
	}
	if string(payload) != "hi" {
		t.Fatalf("expected pong payload hi, got %q", payload)
	}
}
