// internal/app/store/groups/groupstore.go

// Package groupstore persists StudyGroup aggregates.
//
// The aggregate is one document and one unit of concurrency. Writers
// never update fields in place: they load the whole document, mutate it
// in memory, and CompareAndSwap it back. The swap only matches when the
// stored version still equals the loaded one, so two concurrent writers
// cannot silently clobber each other; the loser reloads and retries.
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVersionMismatch is returned by CompareAndSwap when the stored
// aggregate's version no longer matches the caller's copy. Callers
// reload and retry; the service bounds the retries.
var ErrVersionMismatch = errors.New("group version mismatch")

// ErrDuplicateAccessCode is returned when a write would violate the
// sparse unique index on access_code.
var ErrDuplicateAccessCode = errors.New("access code already in use")

// ErrDuplicateID is returned by Insert when an aggregate with the same
// _id already exists.
var ErrDuplicateID = errors.New("group id already exists")

// Store is the Mongo-backed aggregate repository.
type Store struct {
	c *mongo.Collection
}

// New creates a Store over the study_groups collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("study_groups")}
}

// EnsureIndexes creates the indexes the store depends on. The access_code
// index is unique and sparse: only private groups carry a code, so public
// groups never participate in the uniqueness check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "access_code", Value: 1}},
			Options: options.Index().SetName("idx_groups_access_code").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "creator_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_groups_creator"),
		},
		// Sweep query: groups holding meetings that may need a status
		// transition.
		{
			Keys:    bson.D{{Key: "meetings.status", Value: 1}, {Key: "meetings.scheduled_at", Value: 1}},
			Options: options.Index().SetName("idx_groups_meeting_window"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Load fetches the aggregate by id.
func (s *Store) Load(ctx context.Context, id primitive.ObjectID) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StudyGroup{}, groups.ErrNotFound
		}
		return models.StudyGroup{}, err
	}
	return g, nil
}

// FindByAccessCode fetches the private group holding the given code.
func (s *Store) FindByAccessCode(ctx context.Context, code string) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"access_code": code}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StudyGroup{}, groups.ErrNotFound
		}
		return models.StudyGroup{}, err
	}
	return g, nil
}

// Insert stores a brand-new aggregate.
func (s *Store) Insert(ctx context.Context, g models.StudyGroup) error {
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateAccessCode
		}
		return err
	}
	return nil
}

// CompareAndSwap replaces the stored aggregate if and only if its version
// still equals g.Version. On success the returned copy carries the bumped
// version; on a lost race it returns ErrVersionMismatch.
func (s *Store) CompareAndSwap(ctx context.Context, g models.StudyGroup) (models.StudyGroup, error) {
	expected := g.Version
	g.Version = expected + 1
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": g.ID, "version": expected}, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.StudyGroup{}, ErrDuplicateAccessCode
		}
		return models.StudyGroup{}, err
	}
	if res.MatchedCount == 0 {
		// Either a concurrent writer bumped the version or the group is
		// gone; the reload on retry tells those apart.
		return models.StudyGroup{}, ErrVersionMismatch
	}
	return g, nil
}

// IDsWithDueMeetings returns ids of groups holding at least one meeting
// that may need a status transition at the given instant: a scheduled
// meeting whose window has opened, or a live one with no manual end. The
// result can over-select (Mongo cannot compute the scheduled end in the
// filter); the in-memory sweep is idempotent, so that is harmless.
func (s *Store) IDsWithDueMeetings(ctx context.Context, now time.Time) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"meetings": bson.M{
			"$elemMatch": bson.M{
				"$or": bson.A{
					bson.M{
						"status":       bson.M{"$in": bson.A{models.MeetingScheduled, models.MeetingWaiting}},
						"scheduled_at": bson.M{"$lte": now},
					},
					bson.M{
						"status":          models.MeetingActive,
						"actual_end_time": bson.M{"$exists": false},
					},
				},
			},
		},
	}
	cursor, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// Delete removes a group by id. Returns the number of documents deleted
// (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
