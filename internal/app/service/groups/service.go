// internal/app/service/groups/service.go

// Package groupsvc exposes the study-group operations to callers (HTTP
// handlers, the sweep worker). Each mutation is one load → mutate →
// compare-and-swap cycle against the aggregate store; on a lost race the
// cycle reloads and re-applies the same logical mutation, bounded at
// maxUpdateAttempts before surfacing groups.ErrConflict.
package groupsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	groupstore "github.com/campushq/studyhub/internal/app/store/groups"
	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxUpdateAttempts bounds the compare-and-swap retry loop.
const maxUpdateAttempts = 5

// DefaultMaxMembers is used when group creation does not specify a
// capacity.
const DefaultMaxMembers = 10

// Store is the aggregate repository the service drives. Both the Mongo
// store and the in-memory store satisfy it.
type Store interface {
	Load(ctx context.Context, id primitive.ObjectID) (models.StudyGroup, error)
	FindByAccessCode(ctx context.Context, code string) (models.StudyGroup, error)
	Insert(ctx context.Context, g models.StudyGroup) error
	CompareAndSwap(ctx context.Context, g models.StudyGroup) (models.StudyGroup, error)
	IDsWithDueMeetings(ctx context.Context, now time.Time) ([]primitive.ObjectID, error)
}

// Service implements the study-group operations.
type Service struct {
	store Store
	codes *groups.CodeGenerator
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock. Tests use this to pin time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator overrides the access-code generator.
func WithCodeGenerator(cg *groups.CodeGenerator) Option {
	return func(s *Service) { s.codes = cg }
}

// New creates a Service over the given store.
func New(store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		codes: groups.NewCodeGenerator(groups.DefaultCodeLength),
		log:   logger,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// update runs one logical mutation under the optimistic-concurrency
// discipline. mutate is re-applied against a fresh copy on every attempt,
// so it must be a pure function of the aggregate and its arguments.
func (s *Service) update(ctx context.Context, id primitive.ObjectID, mutate func(*models.StudyGroup) error) (models.StudyGroup, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		g, err := s.store.Load(ctx, id)
		if err != nil {
			return models.StudyGroup{}, err
		}
		if err := mutate(&g); err != nil {
			return models.StudyGroup{}, err
		}
		g.UpdatedAt = s.now()

		updated, err := s.store.CompareAndSwap(ctx, g)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, groupstore.ErrVersionMismatch) {
			return models.StudyGroup{}, err
		}
		s.log.Debug("group update lost the version race, retrying",
			zap.String("group_id", id.Hex()),
			zap.Int("attempt", attempt))
	}
	return models.StudyGroup{}, groups.ErrConflict
}

// CreateGroupInput is the caller-supplied data for a new group.
type CreateGroupInput struct {
	Name       string
	Subject    string
	CreatorID  primitive.ObjectID
	IsPublic   bool
	MaxMembers int // 0 means DefaultMaxMembers
}

// CreateGroup creates a study group with the creator as its first admin
// member. Private groups receive a generated access code; a collision
// with an existing code regenerates, bounded at groups.MaxCodeAttempts.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (models.StudyGroup, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.StudyGroup{}, groups.ErrInvalidGroup
	}
	if in.MaxMembers == 0 {
		in.MaxMembers = DefaultMaxMembers
	}
	if in.MaxMembers < models.MinGroupMembers || in.MaxMembers > models.MaxGroupMembers {
		return models.StudyGroup{}, groups.ErrInvalidGroup
	}

	now := s.now()
	g := models.StudyGroup{
		ID:         primitive.NewObjectID(),
		Name:       strings.TrimSpace(in.Name),
		Subject:    in.Subject,
		CreatorID:  in.CreatorID,
		IsPublic:   in.IsPublic,
		MaxMembers: in.MaxMembers,
		Members: []models.Member{{
			UserID:   in.CreatorID,
			Role:     models.RoleAdmin,
			JoinedAt: now,
		}},
		Meetings:  []models.Meeting{},
		Messages:  []models.ChatMessage{},
		Status:    models.GroupActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.IsPublic {
		if err := s.store.Insert(ctx, g); err != nil {
			return models.StudyGroup{}, err
		}
		return g, nil
	}

	for attempt := 1; attempt <= groups.MaxCodeAttempts; attempt++ {
		g.AccessCode = s.codes.Code()
		err := s.store.Insert(ctx, g)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, groupstore.ErrDuplicateAccessCode) {
			return models.StudyGroup{}, err
		}
		s.log.Warn("access code collision, regenerating",
			zap.String("group_id", g.ID.Hex()),
			zap.Int("attempt", attempt))
	}
	return models.StudyGroup{}, groups.ErrCodeGenerationExhausted
}

// GetGroup fetches a group by id.
func (s *Service) GetGroup(ctx context.Context, groupID primitive.ObjectID) (models.StudyGroup, error) {
	return s.store.Load(ctx, groupID)
}

// AddMember adds userID to the group with the given role ("" means
// member).
func (s *Service) AddMember(ctx context.Context, groupID, userID primitive.ObjectID, role string) (models.StudyGroup, error) {
	return s.update(ctx, groupID, func(g *models.StudyGroup) error {
		return groups.AddMember(g, userID, role, s.now())
	})
}

// RemoveMember removes userID from the group. Removing a non-member is a
// no-op.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) (models.StudyGroup, error) {
	return s.update(ctx, groupID, func(g *models.StudyGroup) error {
		groups.RemoveMember(g, userID)
		return nil
	})
}

// ChangeMemberRole updates an existing member's role. Whether the caller
// is allowed to do so is the HTTP layer's concern.
func (s *Service) ChangeMemberRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) (models.StudyGroup, error) {
	return s.update(ctx, groupID, func(g *models.StudyGroup) error {
		return groups.ChangeRole(g, userID, role)
	})
}

// JoinGroupByAccessCode adds userID to the private group holding code.
func (s *Service) JoinGroupByAccessCode(ctx context.Context, code string, userID primitive.ObjectID) (models.StudyGroup, error) {
	g, err := s.store.FindByAccessCode(ctx, code)
	if err != nil {
		return models.StudyGroup{}, err
	}
	return s.AddMember(ctx, g.ID, userID, models.RoleMember)
}

// ScheduleMeeting appends a new meeting to the group.
func (s *Service) ScheduleMeeting(ctx context.Context, groupID primitive.ObjectID, in groups.ScheduleMeetingInput) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		m, err := groups.ScheduleMeeting(g, in, s.now())
		if err != nil {
			return err
		}
		meeting = m
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// StartMeeting manually starts a meeting and records the room link.
func (s *Service) StartMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID, roomLink string) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		m, err := groups.StartMeeting(g, meetingID, roomLink, s.now())
		if err != nil {
			return err
		}
		meeting = m
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// EndMeeting manually completes a meeting and closes out open attendees.
func (s *Service) EndMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID string) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		m, err := groups.EndMeeting(g, meetingID, s.now())
		if err != nil {
			return err
		}
		meeting = m
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// CancelMeeting cancels a meeting that has not started.
func (s *Service) CancelMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID string) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		if err := groups.CancelMeeting(g, meetingID); err != nil {
			return err
		}
		meeting = *groups.FindMeeting(g, meetingID)
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// JoinMeeting records userID's presence in the meeting.
func (s *Service) JoinMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID string, userID primitive.ObjectID) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		if err := groups.JoinMeeting(g, meetingID, userID, s.now()); err != nil {
			return err
		}
		meeting = *groups.FindMeeting(g, meetingID)
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// LeaveMeeting closes userID's open attendance span, if any.
func (s *Service) LeaveMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID string, userID primitive.ObjectID) (models.Meeting, error) {
	var meeting models.Meeting
	_, err := s.update(ctx, groupID, func(g *models.StudyGroup) error {
		if err := groups.LeaveMeeting(g, meetingID, userID, s.now()); err != nil {
			return err
		}
		meeting = *groups.FindMeeting(g, meetingID)
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return meeting, nil
}

// GetMeetingStatus derives a meeting's status at the given instant
// without persisting anything. A zero instant means "now".
func (s *Service) GetMeetingStatus(ctx context.Context, groupID primitive.ObjectID, meetingID string, at time.Time) (groups.Status, error) {
	if at.IsZero() {
		at = s.now()
	}
	g, err := s.store.Load(ctx, groupID)
	if err != nil {
		return groups.Status{}, err
	}
	m := groups.FindMeeting(&g, meetingID)
	if m == nil {
		return groups.Status{}, groups.ErrNotFound
	}
	return groups.MeetingStatus(*m, at), nil
}

// UpdateMeetingStatuses reconciles the group's stored meeting statuses
// with the clock and persists only when something actually changed, so a
// sweep with no time progression does not bump the version.
func (s *Service) UpdateMeetingStatuses(ctx context.Context, groupID primitive.ObjectID, at time.Time) (models.StudyGroup, error) {
	if at.IsZero() {
		at = s.now()
	}
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		g, err := s.store.Load(ctx, groupID)
		if err != nil {
			return models.StudyGroup{}, err
		}
		if groups.UpdateMeetingStatuses(&g, at) == 0 {
			return g, nil
		}
		g.UpdatedAt = s.now()

		updated, err := s.store.CompareAndSwap(ctx, g)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, groupstore.ErrVersionMismatch) {
			return models.StudyGroup{}, err
		}
	}
	return models.StudyGroup{}, groups.ErrConflict
}

// SweepDueMeetings reconciles every group holding a meeting that may need
// a transition. The background worker calls this on a ticker; the lazy
// on-read path stays available through UpdateMeetingStatuses.
func (s *Service) SweepDueMeetings(ctx context.Context, at time.Time) (int, error) {
	if at.IsZero() {
		at = s.now()
	}
	ids, err := s.store.IDsWithDueMeetings(ctx, at)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, id := range ids {
		if _, err := s.UpdateMeetingStatuses(ctx, id, at); err != nil {
			s.log.Warn("meeting status sweep failed for group",
				zap.String("group_id", id.Hex()),
				zap.Error(err))
			continue
		}
		swept++
	}
	return swept, nil
}

// AppendMessage validates and appends a chat message to the group log.
func (s *Service) AppendMessage(ctx context.Context, groupID primitive.ObjectID, in groups.AppendMessageInput) (models.StudyGroup, error) {
	return s.update(ctx, groupID, func(g *models.StudyGroup) error {
		_, err := groups.AppendMessage(g, in, s.now())
		return err
	})
}
