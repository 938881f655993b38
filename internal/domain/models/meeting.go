// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting lifecycle statuses.
//
// "scheduled" and "waiting" are synonyms before a meeting starts; the
// distinction only matters for display labels, never for transitions.
const (
	MeetingScheduled = "scheduled"
	MeetingWaiting   = "waiting"
	MeetingActive    = "active"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

// DefaultMeetingMinutes is used when a meeting is scheduled without an
// explicit duration.
const DefaultMeetingMinutes = 60

// Meeting is a scheduled study session owned by a StudyGroup. Meetings are
// never removed from the group; cancellation is a status.
//
// ActualStartTime/ActualEndTime record explicit manual start/end actions.
// Once either is set, clock-window inference is disabled for that meeting:
// the manual times always win over the scheduled window.
type Meeting struct {
	ID              string             `bson:"id" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ScheduledAt     time.Time          `bson:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	Status          string             `bson:"status" json:"status"`
	ActualStartTime *time.Time         `bson:"actual_start_time,omitempty" json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time         `bson:"actual_end_time,omitempty" json:"actual_end_time,omitempty"`
	IsLive          bool               `bson:"is_live" json:"is_live"`
	RoomLink        string             `bson:"room_link,omitempty" json:"room_link,omitempty"`
	Attendees       []Attendee         `bson:"attendees" json:"attendees"`
	CreatedBy       primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// ScheduledEnd is the end of the meeting's scheduled window.
func (m Meeting) ScheduledEnd() time.Time {
	return m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// Attendee is a per-user join/leave span within one meeting.
//
// At most one record per user has LeftAt unset at any time; once LeftAt
// and DurationMinutes are set the record is immutable.
type Attendee struct {
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	JoinedAt        time.Time          `bson:"joined_at" json:"joined_at"`
	LeftAt          *time.Time         `bson:"left_at,omitempty" json:"left_at,omitempty"`
	DurationMinutes *int               `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
}

// Open reports whether the attendee span is still open (user has not left).
func (a Attendee) Open() bool {
	return a.LeftAt == nil
}
