// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat message types.
const (
	MessageText   = "text"
	MessageFile   = "file"
	MessageImage  = "image"
	MessageSystem = "system"
)

// Message log bounds.
const (
	MaxMessages      = 1000 // per group; oldest evicted beyond this
	MaxMessageLength = 1000 // characters of content
)

// ChatMessage is one entry in a group's append-only chat log. Messages
// belong to the group, not to a meeting.
type ChatMessage struct {
	ID          string             `bson:"id" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Content     string             `bson:"content" json:"content"`
	Type        string             `bson:"type" json:"type"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Edited      bool               `bson:"edited" json:"edited"`
}

// Attachment describes a file or image referenced by a chat message.
// The bytes live in external storage; the log only keeps the pointer.
type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
	Size int64  `bson:"size,omitempty" json:"size,omitempty"`
}
