// Package ws serves the chat over a websocket for clients that prefer
// one connection for the whole conversation.
package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionService "github.com/brianference/daisydog-sub000/internal/service/session"
)

const (
	readDeadline = 60 * time.Second
	pingInterval = 30 * time.Second

	// Same input cap as the HTTP chat endpoint.
	maxInputLength = 500
)

// Handler upgrades chat connections.
type Handler struct {
	svc      *sessionService.Service
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(svc *sessionService.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleChat)
}

type inboundMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type outboundMessage struct {
	Type  string `json:"type"`
	Reply any    `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] chat connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go h.pingLoop(ctx, conn)

	if greeting := h.svc.Greet(); greeting != nil {
		conn.WriteJSON(outboundMessage{Type: "message", Reply: greeting})
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))
		h.handleMessage(ctx, conn, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		input, err := sanitizeInput(msg.Message)
		if err != nil {
			conn.WriteJSON(outboundMessage{Type: "error", Error: err.Error()})
			return
		}
		reply, err := h.svc.ProcessTurn(ctx, input)
		if err != nil {
			conn.WriteJSON(outboundMessage{Type: "error", Error: err.Error()})
			return
		}
		if reply == nil {
			return
		}
		conn.WriteJSON(outboundMessage{Type: "message", Reply: reply})
	case "feed":
		reply := h.svc.Feed()
		conn.WriteJSON(outboundMessage{Type: "message", Reply: reply})
	default:
		conn.WriteJSON(outboundMessage{Type: "error", Error: "unknown message type"})
	}
}

// sanitizeInput applies the same normalization as the HTTP chat
// endpoint so both ingress paths accept identical text.
func sanitizeInput(raw string) (string, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return "", errors.New("message is required")
	}
	if len(input) > maxInputLength {
		return "", errors.New("message too long")
	}
	return input, nil
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
