// internal/app/store/groups/mem.go
package groupstore

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mem is an in-memory aggregate repository with the same contract as the
// Mongo Store, including version compare-and-swap and access-code
// uniqueness. Tests and single-node dev runs use it in place of Mongo.
type Mem struct {
	mu     sync.RWMutex
	byID   map[primitive.ObjectID]models.StudyGroup
	byCode map[string]primitive.ObjectID
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{
		byID:   make(map[primitive.ObjectID]models.StudyGroup),
		byCode: make(map[string]primitive.ObjectID),
	}
}

// Load fetches a deep copy of the aggregate by id. Copies matter: the
// caller mutates embedded slices in place, and the stored aggregate must
// stay untouched until CompareAndSwap commits.
func (m *Mem) Load(_ context.Context, id primitive.ObjectID) (models.StudyGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byID[id]
	if !ok {
		return models.StudyGroup{}, groups.ErrNotFound
	}
	return cloneGroup(g), nil
}

// FindByAccessCode fetches a deep copy of the group holding code.
func (m *Mem) FindByAccessCode(_ context.Context, code string) (models.StudyGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byCode[code]
	if !ok {
		return models.StudyGroup{}, groups.ErrNotFound
	}
	return cloneGroup(m.byID[id]), nil
}

// Insert stores a brand-new aggregate, enforcing id and access-code
// uniqueness the way the Mongo collection's indexes do.
func (m *Mem) Insert(_ context.Context, g models.StudyGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[g.ID]; exists {
		return ErrDuplicateID
	}
	if g.AccessCode != "" {
		if _, taken := m.byCode[g.AccessCode]; taken {
			return ErrDuplicateAccessCode
		}
		m.byCode[g.AccessCode] = g.ID
	}
	m.byID[g.ID] = cloneGroup(g)
	return nil
}

// CompareAndSwap commits g if the stored version still matches g.Version.
func (m *Mem) CompareAndSwap(_ context.Context, g models.StudyGroup) (models.StudyGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[g.ID]
	if !ok || cur.Version != g.Version {
		return models.StudyGroup{}, ErrVersionMismatch
	}
	if g.AccessCode != cur.AccessCode {
		if g.AccessCode != "" {
			if owner, taken := m.byCode[g.AccessCode]; taken && owner != g.ID {
				return models.StudyGroup{}, ErrDuplicateAccessCode
			}
			m.byCode[g.AccessCode] = g.ID
		}
		if cur.AccessCode != "" {
			delete(m.byCode, cur.AccessCode)
		}
	}
	g.Version++
	m.byID[g.ID] = cloneGroup(g)
	return g, nil
}

// IDsWithDueMeetings scans for groups holding a meeting that may need a
// status transition at the given instant.
func (m *Mem) IDsWithDueMeetings(_ context.Context, now time.Time) ([]primitive.ObjectID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []primitive.ObjectID
	for id, g := range m.byID {
		for _, mt := range g.Meetings {
			due := false
			switch mt.Status {
			case models.MeetingScheduled, models.MeetingWaiting:
				due = !now.Before(mt.ScheduledAt)
			case models.MeetingActive:
				due = mt.ActualEndTime == nil
			}
			if due {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

// Delete removes a group by id.
func (m *Mem) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	if g.AccessCode != "" {
		delete(m.byCode, g.AccessCode)
	}
	delete(m.byID, id)
	return 1, nil
}

func cloneGroup(g models.StudyGroup) models.StudyGroup {
	out := g
	out.Members = append([]models.Member(nil), g.Members...)
	out.Messages = append([]models.ChatMessage(nil), g.Messages...)
	out.Meetings = make([]models.Meeting, len(g.Meetings))
	for i, mt := range g.Meetings {
		c := mt
		if mt.ActualStartTime != nil {
			t := *mt.ActualStartTime
			c.ActualStartTime = &t
		}
		if mt.ActualEndTime != nil {
			t := *mt.ActualEndTime
			c.ActualEndTime = &t
		}
		c.Attendees = make([]models.Attendee, len(mt.Attendees))
		for j, a := range mt.Attendees {
			ca := a
			if a.LeftAt != nil {
				t := *a.LeftAt
				ca.LeftAt = &t
			}
			if a.DurationMinutes != nil {
				d := *a.DurationMinutes
				ca.DurationMinutes = &d
			}
			c.Attendees[j] = ca
		}
		out.Meetings[i] = c
	}
	return out
}
