// internal/domain/groups/messages.go
package groups

import (
	"fmt"
	"strings"
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contentPolicy strips all markup from user-supplied message content.
// Chat content is stored as plain text; clients do their own rendering.
var contentPolicy = bluemonday.StrictPolicy()

// AppendMessageInput is the caller-supplied data for a chat message.
type AppendMessageInput struct {
	SenderID    primitive.ObjectID
	Content     string
	Type        string // "" means models.MessageText
	Attachments []models.Attachment
}

// AppendMessage validates, sanitizes, and appends a chat message to the
// group's log, evicting the oldest entries beyond models.MaxMessages.
// The log keeps the most recent entries in their original insertion order.
func AppendMessage(g *models.StudyGroup, in AppendMessageInput, now time.Time) (models.ChatMessage, error) {
	if in.Type == "" {
		in.Type = models.MessageText
	}
	switch in.Type {
	case models.MessageText, models.MessageFile, models.MessageImage, models.MessageSystem:
	default:
		return models.ChatMessage{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, in.Type)
	}
	if len(in.Content) > models.MaxMessageLength {
		return models.ChatMessage{}, fmt.Errorf("%w: content exceeds %d characters",
			ErrInvalidMessage, models.MaxMessageLength)
	}
	content := strings.TrimSpace(contentPolicy.Sanitize(in.Content))
	if content == "" && len(in.Attachments) == 0 {
		return models.ChatMessage{}, fmt.Errorf("%w: empty content", ErrInvalidMessage)
	}

	msg := models.ChatMessage{
		ID:          uuid.NewString(),
		SenderID:    in.SenderID,
		Content:     content,
		Type:        in.Type,
		Attachments: in.Attachments,
		Timestamp:   now,
	}
	g.Messages = append(g.Messages, msg)
	if over := len(g.Messages) - models.MaxMessages; over > 0 {
		g.Messages = g.Messages[over:]
	}
	return msg, nil
}
