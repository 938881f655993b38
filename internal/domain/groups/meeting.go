// internal/domain/groups/meeting.go
package groups

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleMeetingInput is the caller-supplied data for a new meeting.
type ScheduleMeetingInput struct {
	Title           string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int // 0 means models.DefaultMeetingMinutes
	CreatedBy       primitive.ObjectID
}

// ScheduleMeeting appends a new meeting to the group and returns it.
func ScheduleMeeting(g *models.StudyGroup, in ScheduleMeetingInput, now time.Time) (models.Meeting, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Meeting{}, fmt.Errorf("%w: title is required", ErrInvalidMeeting)
	}
	if in.DurationMinutes < 0 {
		return models.Meeting{}, fmt.Errorf("%w: duration must be positive", ErrInvalidMeeting)
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = models.DefaultMeetingMinutes
	}
	m := models.Meeting{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Status:          models.MeetingScheduled,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
	}
	g.Meetings = append(g.Meetings, m)
	return m, nil
}

// FindMeeting returns a pointer into the group's meeting slice, or nil.
// The pointer is only valid until the slice is next modified.
func FindMeeting(g *models.StudyGroup, meetingID string) *models.Meeting {
	for i := range g.Meetings {
		if g.Meetings[i].ID == meetingID {
			return &g.Meetings[i]
		}
	}
	return nil
}

// StartMeeting manually starts a meeting, even before its scheduled
// window, and records the video-room link supplied by the caller. Once
// started, plain status reads report active until the meeting is ended —
// by EndMeeting, or by the sweep once the scheduled window lapses (see
// UpdateMeetingStatuses rule 2).
func StartMeeting(g *models.StudyGroup, meetingID, roomLink string, now time.Time) (models.Meeting, error) {
	m := FindMeeting(g, meetingID)
	if m == nil {
		return models.Meeting{}, ErrNotFound
	}
	start := now
	m.Status = models.MeetingActive
	m.IsLive = true
	m.ActualStartTime = &start
	if roomLink != "" {
		m.RoomLink = roomLink
	}
	return *m, nil
}

// EndMeeting manually completes a meeting and closes out every attendee
// that never left: their LeftAt becomes now and their duration is
// computed from their own join time.
func EndMeeting(g *models.StudyGroup, meetingID string, now time.Time) (models.Meeting, error) {
	m := FindMeeting(g, meetingID)
	if m == nil {
		return models.Meeting{}, ErrNotFound
	}
	end := now
	m.Status = models.MeetingCompleted
	m.IsLive = false
	m.ActualEndTime = &end
	closeOpenAttendees(m, now)
	return *m, nil
}

// CancelMeeting marks a meeting cancelled. Only meetings that have not
// started (scheduled or waiting) can be cancelled; cancellation is a
// terminal status, never a removal.
func CancelMeeting(g *models.StudyGroup, meetingID string) error {
	m := FindMeeting(g, meetingID)
	if m == nil {
		return ErrNotFound
	}
	switch m.Status {
	case models.MeetingScheduled, models.MeetingWaiting:
		m.Status = models.MeetingCancelled
		m.IsLive = false
		return nil
	}
	return ErrMeetingNotCancellable
}

// Status is the derived lifecycle view of a meeting at an instant.
type Status struct {
	Status     string `json:"status"`
	CanJoin    bool   `json:"can_join"`
	IsLive     bool   `json:"is_live"`
	TimeStatus string `json:"time_status"`
}

// MeetingStatus derives a meeting's lifecycle status from the clock and
// any manual start/end actions. It is a pure function: same meeting and
// same instant always produce the same answer.
//
// Manual actual times take precedence over the scheduled window: once a
// human has started or ended the meeting, the clock no longer decides.
func MeetingStatus(m models.Meeting, now time.Time) Status {
	if m.Status == models.MeetingCancelled {
		return Status{Status: models.MeetingCancelled, TimeStatus: "cancelled"}
	}

	switch {
	case m.ActualStartTime != nil && m.ActualEndTime != nil:
		mins := int(math.Round(m.ActualEndTime.Sub(*m.ActualStartTime).Minutes()))
		if mins < 0 {
			mins = 0
		}
		return Status{
			Status:     models.MeetingCompleted,
			TimeStatus: fmt.Sprintf("ended after %d minutes", mins),
		}
	case m.ActualStartTime != nil:
		return Status{
			Status:     models.MeetingActive,
			CanJoin:    true,
			IsLive:     true,
			TimeStatus: "in progress",
		}
	}

	end := m.ScheduledEnd()
	switch {
	case now.Before(m.ScheduledAt):
		mins := int(math.Ceil(m.ScheduledAt.Sub(now).Minutes()))
		return Status{
			Status:     models.MeetingWaiting,
			TimeStatus: fmt.Sprintf("starts in %d minutes", mins),
		}
	case now.After(end):
		return Status{Status: models.MeetingCompleted, TimeStatus: "ended"}
	default:
		return Status{
			Status:     models.MeetingActive,
			CanJoin:    true,
			IsLive:     true,
			TimeStatus: "in progress",
		}
	}
}

// UpdateMeetingStatuses reconciles each meeting's stored status with the
// clock and returns how many meetings changed.
//
// Two rules, applied in order so a meeting whose whole window has passed
// unnoticed moves scheduled → active → completed in one sweep:
//
//  1. A scheduled (or waiting) meeting whose window has opened becomes
//     active; its ActualStartTime backfills to ScheduledAt if unset.
//  2. An active meeting past its scheduled end with no manual end becomes
//     completed; ActualEndTime backfills to the scheduled end and any
//     attendee still open is closed at that instant.
//
// The sweep is idempotent: re-running it with no time progression
// changes nothing.
func UpdateMeetingStatuses(g *models.StudyGroup, now time.Time) int {
	changed := 0
	for i := range g.Meetings {
		m := &g.Meetings[i]

		if (m.Status == models.MeetingScheduled || m.Status == models.MeetingWaiting) &&
			!now.Before(m.ScheduledAt) {
			m.Status = models.MeetingActive
			m.IsLive = true
			if m.ActualStartTime == nil {
				start := m.ScheduledAt
				m.ActualStartTime = &start
			}
			changed++
		}

		if m.Status == models.MeetingActive && m.ActualEndTime == nil {
			if end := m.ScheduledEnd(); now.After(end) {
				m.Status = models.MeetingCompleted
				m.IsLive = false
				m.ActualEndTime = &end
				closeOpenAttendees(m, end)
				changed++
			}
		}
	}
	return changed
}

// closeOpenAttendees stamps LeftAt and a non-negative duration on every
// attendee record that is still open.
func closeOpenAttendees(m *models.Meeting, at time.Time) {
	for i := range m.Attendees {
		a := &m.Attendees[i]
		if !a.Open() {
			continue
		}
		left := at
		a.LeftAt = &left
		mins := attendeeMinutes(a.JoinedAt, left)
		a.DurationMinutes = &mins
	}
}

// attendeeMinutes rounds a join/leave span to whole minutes, never
// negative (a forced close at the scheduled end can predate a late join).
func attendeeMinutes(joined, left time.Time) int {
	mins := int(math.Round(left.Sub(joined).Minutes()))
	if mins < 0 {
		mins = 0
	}
	return mins
}
