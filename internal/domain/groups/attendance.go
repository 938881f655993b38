// internal/domain/groups/attendance.go
package groups

import (
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinMeeting records that userID joined the meeting at now.
//
// Joining while an open attendance record exists is a no-op, so repeated
// joins (double clicks, reconnects) never create overlapping spans. A new
// record is appended when the user has never joined or has already left,
// so one user can hold several closed spans in the same meeting.
func JoinMeeting(g *models.StudyGroup, meetingID string, userID primitive.ObjectID, now time.Time) error {
	m := FindMeeting(g, meetingID)
	if m == nil {
		return ErrNotFound
	}
	if openAttendee(m, userID) != nil {
		return nil
	}
	m.Attendees = append(m.Attendees, models.Attendee{
		UserID:   userID,
		JoinedAt: now,
	})
	return nil
}

// LeaveMeeting closes userID's open attendance record at now and computes
// its duration. Leaving a meeting the user never joined (or already left)
// is a no-op, not an error.
func LeaveMeeting(g *models.StudyGroup, meetingID string, userID primitive.ObjectID, now time.Time) error {
	m := FindMeeting(g, meetingID)
	if m == nil {
		return ErrNotFound
	}
	a := openAttendee(m, userID)
	if a == nil {
		return nil
	}
	left := now
	a.LeftAt = &left
	mins := attendeeMinutes(a.JoinedAt, left)
	a.DurationMinutes = &mins
	return nil
}

// openAttendee returns the user's open attendance record, or nil. There
// is at most one: JoinMeeting never opens a second span for the same user.
func openAttendee(m *models.Meeting, userID primitive.ObjectID) *models.Attendee {
	for i := range m.Attendees {
		if m.Attendees[i].UserID == userID && m.Attendees[i].Open() {
			return &m.Attendees[i]
		}
	}
	return nil
}
