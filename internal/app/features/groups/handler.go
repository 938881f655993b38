// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	groupsvc "github.com/campushq/studyhub/internal/app/service/groups"
	domain "github.com/campushq/studyhub/internal/domain/groups"
)

// Handler is the shared dependency container for the groups feature.
// It holds the group service and logger so the various handlers
// (create, membership, meetings, messages) share the same core
// dependencies.
type Handler struct {
	Svc               *groupsvc.Service
	DefaultMaxMembers int
	Log               *zap.Logger
}

// NewHandler constructs a new groups Handler. It is typically called
// from the bootstrap BuildHandler function, where the service and
// logger are already initialized.
func NewHandler(svc *groupsvc.Service, defaultMaxMembers int, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:               svc,
		DefaultMaxMembers: defaultMaxMembers,
		Log:               logger,
	}
}

// callerID extracts the authenticated user from the X-User-ID header.
// Identity verification happens upstream; this service trusts the header.
func callerID(r *http.Request) (primitive.ObjectID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return primitive.NilObjectID, errors.New("missing X-User-ID header")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.New("malformed X-User-ID header")
	}
	return id, nil
}

func pathObjectID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("encode response failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps service errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrGroupFull),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrMeetingNotCancellable):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidGroup),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidMeeting),
		errors.Is(err, domain.ErrInvalidMessage):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.Log.Error("group request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
