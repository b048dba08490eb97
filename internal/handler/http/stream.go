package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/evaluation"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/bus"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The local surface is CORS-guarded at the router; the socket
		// accepts the same UI shell
		return true
	},
}

// StreamMessage is one pushed event on the UI socket
type StreamMessage struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

type StreamHandler interface {
	// Events upgrades to a WebSocket and pushes badge/count events to the
	// UI shell until the client disconnects
	Events(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	bus *bus.Bus
}

func NewStreamHandler(eventBus *bus.Bus) StreamHandler {
	return &streamHandlerImpl{bus: eventBus}
}

// Events handles GET /stream
func (h *streamHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	countCh, unsubscribeCount := h.bus.Subscribe(evaluation.TopicCountUpdate)
	defer unsubscribeCount()
	completedCh, unsubscribeCompleted := h.bus.Subscribe(evaluation.TopicCompleted)
	defer unsubscribeCompleted()

	slog.Info("ui event stream connected", "remote", r.RemoteAddr)

	// Reader goroutine: the UI never sends data, but reads surface the
	// disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-countCh:
			if err := conn.WriteJSON(StreamMessage{Topic: ev.Topic, Data: ev.Data}); err != nil {
				return
			}
		case ev := <-completedCh:
			if err := conn.WriteJSON(StreamMessage{Topic: ev.Topic, Data: ev.Data}); err != nil {
				return
			}
		case <-done:
			slog.Info("ui event stream disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		}
	}
}
