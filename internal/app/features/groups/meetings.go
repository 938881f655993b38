// internal/app/features/groups/meetings.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/studyhub/internal/app/system/timeouts"
	domain "github.com/campushq/studyhub/internal/domain/groups"
)

// HandleScheduleMeeting handles POST /groups/{id}/meetings.
func (h *Handler) HandleScheduleMeeting(w http.ResponseWriter, r *http.Request) {
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

	var req scheduleMeetingRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.ScheduleMeeting(ctx, groupID, domain.ScheduleMeetingInput{
		Title:           req.Title,
		Description:     req.Description,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       caller,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

// HandleStartMeeting handles POST /groups/{id}/meetings/{meetingID}/start.
func (h *Handler) HandleStartMeeting(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	meetingID := chi.URLParam(r, "meetingID")

	var req startMeetingRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.StartMeeting(ctx, groupID, meetingID, req.RoomLink)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleEndMeeting handles POST /groups/{id}/meetings/{meetingID}/end.
func (h *Handler) HandleEndMeeting(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.EndMeeting(ctx, groupID, meetingID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleCancelMeeting handles POST /groups/{id}/meetings/{meetingID}/cancel.
func (h *Handler) HandleCancelMeeting(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.CancelMeeting(ctx, groupID, meetingID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleJoinMeeting handles POST /groups/{id}/meetings/{meetingID}/join.
// Joining while already present is a no-op.
func (h *Handler) HandleJoinMeeting(w http.ResponseWriter, r *http.Request) {
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
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.JoinMeeting(ctx, groupID, meetingID, caller)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// HandleLeaveMeeting handles POST /groups/{id}/meetings/{meetingID}/leave.
// Leaving without an open attendance record is a no-op.
func (h *Handler) HandleLeaveMeeting(w http.ResponseWriter, r *http.Request) {
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
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Svc.LeaveMeeting(ctx, groupID, meetingID, caller)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// ServeMeetingStatus handles GET /groups/{id}/meetings/{meetingID}/status.
//
// Status is derived from the clock at request time; reading it never
// mutates the stored group.
func (h *Handler) ServeMeetingStatus(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	meetingID := chi.URLParam(r, "meetingID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Svc.GetMeetingStatus(ctx, groupID, meetingID, time.Time{})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// HandleRefreshMeetingStatuses handles POST /groups/{id}/meetings/refresh.
//
// Applies the same idempotent transition rules as the background sweep,
// on demand, and returns the updated group.
func (h *Handler) HandleRefreshMeetingStatuses(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.UpdateMeetingStatuses(ctx, groupID, time.Time{})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}
