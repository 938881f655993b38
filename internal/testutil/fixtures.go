package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for seeding test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup inserts a public study group with the creator as its only
// admin member and returns it with its generated ID.
func (f *Fixtures) CreateGroup(ctx context.Context, name string) models.StudyGroup {
	f.t.Helper()
	return f.insertGroup(ctx, name, true, "")
}

// CreatePrivateGroup inserts a private study group carrying the given
// access code.
func (f *Fixtures) CreatePrivateGroup(ctx context.Context, name, accessCode string) models.StudyGroup {
	f.t.Helper()
	return f.insertGroup(ctx, name, false, accessCode)
}

func (f *Fixtures) insertGroup(ctx context.Context, name string, isPublic bool, accessCode string) models.StudyGroup {
	f.t.Helper()

	now := time.Now().UTC()
	creator := primitive.NewObjectID()
	g := models.StudyGroup{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Subject:    "Test Subject",
		CreatorID:  creator,
		IsPublic:   isPublic,
		AccessCode: accessCode,
		MaxMembers: 10,
		Members: []models.Member{
			{UserID: creator, Role: models.RoleAdmin, JoinedAt: now},
		},
		Status:    models.GroupActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("study_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("insert fixture group: %v", err)
	}
	return g
}

// AddScheduledMeeting appends a scheduled meeting to a stored group and
// returns the meeting. The aggregate version is left untouched so tests
// can exercise compare-and-swap against a known version.
func (f *Fixtures) AddScheduledMeeting(ctx context.Context, groupID primitive.ObjectID, meetingID string, scheduledAt time.Time) models.Meeting {
	f.t.Helper()

	m := models.Meeting{
		ID:              meetingID,
		Title:           "Fixture Meeting",
		ScheduledAt:     scheduledAt,
		DurationMinutes: models.DefaultMeetingMinutes,
		Status:          models.MeetingScheduled,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := f.db.Collection("study_groups").UpdateByID(ctx, groupID,
		bson.M{"$push": bson.M{"meetings": m}})
	if err != nil {
		f.t.Fatalf("push fixture meeting: %v", err)
	}
	return m
}
