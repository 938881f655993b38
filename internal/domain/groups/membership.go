// internal/domain/groups/membership.go

// Package groups holds the pure mutation logic for the StudyGroup
// aggregate: membership, meeting lifecycle, attendance, and the chat log.
//
// Every function here mutates an in-memory aggregate and nothing else.
// Persistence, conflict detection, and retries live in the store and
// service layers, which makes this logic unit-testable without a
// database.
package groups

import (
	"time"

	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidRole reports whether role is one of the known member roles.
func ValidRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleModerator, models.RoleMember:
		return true
	}
	return false
}

// AddMember appends a membership for userID with the given role.
//
// Fails with ErrAlreadyMember when the user is already present and with
// ErrGroupFull when the group is at capacity. The duplicate check runs
// first: adding a present user reports ErrAlreadyMember even when the
// group is also full. The caller decides the role; an empty role
// defaults to "member".
func AddMember(g *models.StudyGroup, userID primitive.ObjectID, role string, now time.Time) error {
	if role == "" {
		role = models.RoleMember
	}
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	if IsMember(g, userID) {
		return ErrAlreadyMember
	}
	if len(g.Members) >= g.MaxMembers {
		return ErrGroupFull
	}
	g.Members = append(g.Members, models.Member{
		UserID:   userID,
		Role:     role,
		JoinedAt: now,
	})
	return nil
}

// RemoveMember removes every membership entry for userID. Removing a
// non-member is a no-op, not an error.
func RemoveMember(g *models.StudyGroup, userID primitive.ObjectID) {
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
}

// IsMember reports whether userID belongs to the group.
func IsMember(g *models.StudyGroup, userID primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the member's role, or "" when the user is not a member.
func RoleOf(g *models.StudyGroup, userID primitive.ObjectID) string {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

// ChangeRole updates an existing member's role. Authorization (who may
// change roles) is enforced by the caller; this only checks structure.
func ChangeRole(g *models.StudyGroup, userID primitive.ObjectID, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			g.Members[i].Role = role
			return nil
		}
	}
	return ErrNotFound
}
