// internal/app/features/groups/messages.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/studyhub/internal/app/system/timeouts"
	domain "github.com/campushq/studyhub/internal/domain/groups"
)

// HandleAppendMessage handles POST /groups/{id}/messages.
//
// Content is sanitized before storage. The log keeps the most recent
// entries only; appending beyond the cap evicts the oldest.
func (h *Handler) HandleAppendMessage(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}

	var req appendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.AppendMessage(ctx, groupID, domain.AppendMessageInput{
		SenderID:    caller,
		Content:     req.Content,
		Type:        req.Type,
		Attachments: req.Attachments,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	// Respond with the newest entry rather than the full log.
	h.writeJSON(w, http.StatusCreated, g.Messages[len(g.Messages)-1])
}

// ServeMessages handles GET /groups/{id}/messages.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Svc.GetGroup(ctx, groupID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g.Messages)
}
