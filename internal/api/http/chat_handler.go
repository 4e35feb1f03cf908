package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wotro-backend/internal/service"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (h *ChatHandler) OpenThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CarID string `json:"car_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	thread, err := h.chatSvc.OpenThread(r.Context(), SessionFromContext(r.Context()), req.CarID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *ChatHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.chatSvc.ListThreads(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatSvc.ListMessages(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req service.MessageInput
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.chatSvc.SendMessage(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.chatSvc.MarkRead(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}
