package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/ShubhamP528/RentManagement-frontend/internal/httputil"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/queue"
	"github.com/ShubhamP528/RentManagement-frontend/internal/transport/http/middleware"
)

// Sink accepts push events from the relay. It is either the worker handler
// (direct delivery) or the stream publisher (delivery through redis).
type Sink interface {
	HandleEvent(ctx context.Context, event queue.PushEvent) error
}

// MessageRequest is a data-only push as relayed from FCM.
type MessageRequest struct {
	Data map[string]string `json:"data"`
}

// OpenedRequest is a tap on a notification shown by the OS tray.
type OpenedRequest struct {
	ID    string            `json:"id"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// AcceptedResponse echoes the event id assigned to a relayed push.
type AcceptedResponse struct {
	ID string `json:"id"`
}

type PushHandler struct {
	sink Sink
}

func NewPushHandler(sink Sink) *PushHandler {
	return &PushHandler{sink: sink}
}

// Message handles POST /push/messages
func (h *PushHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if len(req.Data) == 0 {
		httputil.WriteBadRequest(w, "data is required")
		return
	}

	event := queue.NewMessageEvent(req.Data)
	h.forward(w, r, event)
}

// Opened handles POST /push/opened
func (h *PushHandler) Opened(w http.ResponseWriter, r *http.Request) {
	var req OpenedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	event := queue.NewOpenedEvent(model.Notification{
		ID:    req.ID,
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	h.forward(w, r, event)
}

func (h *PushHandler) forward(w http.ResponseWriter, r *http.Request, event queue.PushEvent) {
	relay, _ := middleware.GetRelayFromContext(r.Context())
	if err := h.sink.HandleEvent(r.Context(), event); err != nil {
		log.Printf("[ERROR] Forward push: relay=%s type=%s id=%s err=%v", relay, event.Type, event.ID, err)
		httputil.WriteInternalError(w, "Failed to deliver push")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, AcceptedResponse{ID: event.ID})
}
