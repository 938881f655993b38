// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/studyhub/internal/app/system/timeouts"
)

// HandleAddMember handles POST /groups/{id}/members.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}

	var req addMemberRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, ok := pathObjectID(req.UserID)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.AddMember(ctx, groupID, userID, req.Role)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// HandleRemoveMember handles DELETE /groups/{id}/members/{userID}.
// Removing a user who is not a member succeeds without effect.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	userID, ok := pathObjectID(chi.URLParam(r, "userID"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.RemoveMember(ctx, groupID, userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// HandleChangeMemberRole handles PUT /groups/{id}/members/{userID}/role.
func (h *Handler) HandleChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathObjectID(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed group id")
		return
	}
	userID, ok := pathObjectID(chi.URLParam(r, "userID"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "malformed user id")
		return
	}

	var req changeRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.ChangeMemberRole(ctx, groupID, userID, req.Role)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// HandleJoinByAccessCode handles POST /groups/join.
//
// The caller joins the private group holding the supplied access code.
// An unknown code answers 404 without revealing whether the code ever
// existed.
func (h *Handler) HandleJoinByAccessCode(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req joinByCodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AccessCode == "" {
		h.writeError(w, http.StatusBadRequest, "missing access_code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.JoinGroupByAccessCode(ctx, req.AccessCode, caller)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}
