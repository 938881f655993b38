// internal/app/features/groups/types.go
package groups

import (
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createGroupRequest struct {
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	IsPublic   bool   `json:"is_public"`
	MaxMembers int    `json:"max_members"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type joinByCodeRequest struct {
	AccessCode string `json:"access_code"`
}

type scheduleMeetingRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
}

type startMeetingRequest struct {
	RoomLink string `json:"room_link,omitempty"`
}

type appendMessageRequest struct {
	Content     string              `json:"content"`
	Type        string              `json:"type,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
}
