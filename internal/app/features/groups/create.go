// internal/app/features/groups/create.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	groupsvc "github.com/campushq/studyhub/internal/app/service/groups"
	"github.com/campushq/studyhub/internal/app/system/timeouts"
)

// HandleCreateGroup handles POST /groups.
//
// The caller becomes the group's first member with the admin role.
// Private groups are created with a generated access code, returned in
// the response body.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createGroupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.MaxMembers == 0 {
		req.MaxMembers = h.DefaultMaxMembers
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.CreateGroup(ctx, groupsvc.CreateGroupInput{
		Name:       req.Name,
		Subject:    req.Subject,
		CreatorID:  caller,
		IsPublic:   req.IsPublic,
		MaxMembers: req.MaxMembers,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, g)
}

// ServeGroup handles GET /groups/{id}.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
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
	h.writeJSON(w, http.StatusOK, g)
}
