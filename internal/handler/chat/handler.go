// Package chat exposes the conversation over HTTP.
package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	sessionService "github.com/brianference/daisydog-sub000/internal/service/session"
	"github.com/brianference/daisydog-sub000/pkg/utils"
)

const maxInputLength = 500

// Handler serves the chat endpoints.
type Handler struct {
	svc *sessionService.Service
}

// New creates a chat handler.
func New(svc *sessionService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/greet", h.handleGreet)
	r.Post("/chat/feed", h.handleFeed)
	r.Post("/chat/reset", h.handleReset)
	r.Get("/chat/state", h.handleState)
	r.Get("/chat/actions", h.handleActions)

	r.Post("/checkpoint/save", h.handleSave)
	r.Get("/checkpoint/backups", h.handleListBackups)
	r.Post("/checkpoint/backups/{name}", h.handleCreateBackup)
	r.Post("/checkpoint/backups/{name}/restore", h.handleRestoreBackup)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := strings.TrimSpace(payload.Message)
	if input == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(input) > maxInputLength {
		utils.RespondError(w, http.StatusBadRequest, "message too long")
		return
	}

	reply, err := h.svc.ProcessTurn(r.Context(), input)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reply == nil {
		// The conversation moved on before the reply was ready.
		utils.RespondJSON(w, http.StatusOK, map[string]any{"reply": nil})
		return
	}

	_, actions := h.svc.State()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":   reply,
		"actions": actions,
	})
}

func (h *Handler) handleGreet(w http.ResponseWriter, r *http.Request) {
	msg := h.svc.Greet()
	if msg == nil {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"reply": nil})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"reply": msg})
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	msg := h.svc.Feed()
	utils.RespondJSON(w, http.StatusOK, map[string]any{"reply": msg})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	msg := h.svc.Reset()
	utils.RespondJSON(w, http.StatusOK, map[string]any{"reply": msg})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	sess, actions := h.svc.State()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session": sess,
		"actions": actions,
	})
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	_, actions := h.svc.State()
	utils.RespondJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if !h.svc.SaveNow() {
		utils.RespondError(w, http.StatusServiceUnavailable, "persistence unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) handleListBackups(w http.ResponseWriter, r *http.Request) {
	names := h.svc.Checkpoints().ListBackups()
	if names == nil {
		names = []string{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"backups": names})
}

func (h *Handler) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Flush first so the backup captures the latest turn.
	h.svc.SaveNow()
	if !h.svc.Checkpoints().CreateBackup(name) {
		utils.RespondError(w, http.StatusServiceUnavailable, "backup failed")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"status": "created", "name": name})
}

func (h *Handler) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.svc.Checkpoints().RestoreFromBackup(name) {
		utils.RespondError(w, http.StatusNotFound, "backup not found")
		return
	}
	if !h.svc.ReloadFromCheckpoint() {
		utils.RespondError(w, http.StatusInternalServerError, "restored snapshot unreadable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "restored", "name": name})
}
