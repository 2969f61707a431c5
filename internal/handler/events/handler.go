// Package events streams Daisy's unprompted messages, like hunger
// whines, over Server-Sent Events.
package events

import (
	"log"
	"net/http"
	"time"

	chatmodel "github.com/brianference/daisydog-sub000/internal/model/chat"
	"github.com/brianference/daisydog-sub000/pkg/utils"
)

const heartbeatInterval = 8 * time.Second

// Handler owns the single event stream.
type Handler struct {
	events <-chan chatmodel.Message
}

// New creates the events handler over the session's event channel.
func New(events <-chan chatmodel.Message) *Handler {
	return &Handler{events: events}
}

// HandleStream serves one SSE connection until the client goes away.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	log.Printf("[sse] event stream opened")

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	utils.SendSSEEvent(w, flusher, "status", map[string]string{"message": "stream established"})

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] event stream closed")
			return
		case msg, open := <-h.events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, "message", msg)
		case <-ticker.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]int64{"ts": time.Now().Unix()})
		}
	}
}
