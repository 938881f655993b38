// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter for the study-group API. It is mounted
// under /groups by the bootstrap router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// CREATE / READ
	r.Post("/", h.HandleCreateGroup)
	r.Get("/{id}", h.ServeGroup)

	// JOIN BY ACCESS CODE
	r.Post("/join", h.HandleJoinByAccessCode)

	// MEMBERSHIP
	r.Post("/{id}/members", h.HandleAddMember)
	r.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	r.Put("/{id}/members/{userID}/role", h.HandleChangeMemberRole)

	// MEETINGS
	r.Post("/{id}/meetings", h.HandleScheduleMeeting)
	r.Post("/{id}/meetings/refresh", h.HandleRefreshMeetingStatuses)
	r.Post("/{id}/meetings/{meetingID}/start", h.HandleStartMeeting)
	r.Post("/{id}/meetings/{meetingID}/end", h.HandleEndMeeting)
	r.Post("/{id}/meetings/{meetingID}/cancel", h.HandleCancelMeeting)
	r.Post("/{id}/meetings/{meetingID}/join", h.HandleJoinMeeting)
	r.Post("/{id}/meetings/{meetingID}/leave", h.HandleLeaveMeeting)
	r.Get("/{id}/meetings/{meetingID}/status", h.ServeMeetingStatus)

	// MESSAGES
	r.Post("/{id}/messages", h.HandleAppendMessage)
	r.Get("/{id}/messages", h.ServeMessages)

	return r
}
