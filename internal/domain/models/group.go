// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group status values.
const (
	GroupActive   = "active"
	GroupInactive = "inactive"
	GroupArchived = "archived"
)

// Member roles.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// Group capacity bounds.
const (
	MinGroupMembers = 2
	MaxGroupMembers = 100
)

// StudyGroup is the aggregate root for a study group.
//
// NOTE:
//   - Members, meetings, and messages are embedded on the group document.
//     The whole document is one consistency unit: every mutation is a
//     load → mutate → compare-and-swap cycle keyed on Version.
//   - AccessCode is set iff the group is private. Uniqueness across all
//     groups is enforced by a sparse unique index on access_code.
//   - Messages holds at most the latest MaxMessages entries in insertion
//     order; older entries are evicted on append.
type StudyGroup struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Subject    string             `bson:"subject" json:"subject"`
	CreatorID  primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	IsPublic   bool               `bson:"is_public" json:"is_public"`
	AccessCode string             `bson:"access_code,omitempty" json:"access_code,omitempty"`
	MaxMembers int                `bson:"max_members" json:"max_members"`

	Members  []Member      `bson:"members" json:"members"`
	Meetings []Meeting     `bson:"meetings" json:"meetings"`
	Messages []ChatMessage `bson:"messages" json:"messages"`

	Status string `bson:"status" json:"status"`

	// Version is the optimistic-concurrency token. It is bumped by the
	// store on every successful compare-and-swap.
	Version int64 `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Member is a user's membership inside a study group. Members are owned
// by the group: created on join, removed on leave, role changed by admins.
type Member struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}
