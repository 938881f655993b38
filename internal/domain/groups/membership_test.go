package groups_test

import (
	"errors"
	"testing"
	"time"

	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newGroup(maxMembers int) *models.StudyGroup {
	return &models.StudyGroup{
		ID:         primitive.NewObjectID(),
		Name:       "Algorithms Study Group",
		Subject:    "CS",
		MaxMembers: maxMembers,
		Status:     models.GroupActive,
		Version:    1,
	}
}

func TestAddMember(t *testing.T) {
	g := newGroup(5)
	now := time.Now().UTC()
	userID := primitive.NewObjectID()

	if err := groups.AddMember(g, userID, "", now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if len(g.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(g.Members))
	}
	if g.Members[0].Role != models.RoleMember {
		t.Errorf("expected default role %q, got %q", models.RoleMember, g.Members[0].Role)
	}
	if !g.Members[0].JoinedAt.Equal(now) {
		t.Errorf("JoinedAt: got %v, want %v", g.Members[0].JoinedAt, now)
	}
}

func TestAddMember_AlreadyMember(t *testing.T) {
	g := newGroup(5)
	now := time.Now().UTC()
	userID := primitive.NewObjectID()

	if err := groups.AddMember(g, userID, models.RoleModerator, now); err != nil {
		t.Fatalf("first AddMember failed: %v", err)
	}
	err := groups.AddMember(g, userID, models.RoleMember, now)
	if !errors.Is(err, groups.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
	if len(g.Members) != 1 {
		t.Errorf("duplicate add must not change membership, got %d members", len(g.Members))
	}
}

func TestAddMember_GroupFull(t *testing.T) {
	g := newGroup(2)
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		if err := groups.AddMember(g, primitive.NewObjectID(), "", now); err != nil {
			t.Fatalf("AddMember %d failed: %v", i, err)
		}
	}
	err := groups.AddMember(g, primitive.NewObjectID(), "", now)
	if !errors.Is(err, groups.ErrGroupFull) {
		t.Errorf("expected ErrGroupFull, got %v", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("capacity invariant violated: %d members in a group of 2", len(g.Members))
	}
}

func TestAddMember_DuplicateInFullGroup(t *testing.T) {
	g := newGroup(2)
	now := time.Now().UTC()
	present := primitive.NewObjectID()

	if err := groups.AddMember(g, present, "", now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := groups.AddMember(g, primitive.NewObjectID(), "", now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// The duplicate diagnosis wins over the capacity one: re-adding a
	// present user to a full group reports ErrAlreadyMember.
	err := groups.AddMember(g, present, "", now)
	if !errors.Is(err, groups.ErrAlreadyMember) {
		t.Errorf("duplicate add on full group: got %v, want ErrAlreadyMember", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("membership changed: got %d members, want 2", len(g.Members))
	}
}

func TestAddMember_InvalidRole(t *testing.T) {
	g := newGroup(5)
	err := groups.AddMember(g, primitive.NewObjectID(), "owner", time.Now().UTC())
	if !errors.Is(err, groups.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRemoveMember_AbsentIsNoOp(t *testing.T) {
	g := newGroup(5)
	now := time.Now().UTC()
	stays := primitive.NewObjectID()
	if err := groups.AddMember(g, stays, "", now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Removing someone who was never a member must not error and must
	// not touch existing members.
	groups.RemoveMember(g, primitive.NewObjectID())
	if len(g.Members) != 1 {
		t.Fatalf("expected 1 member after no-op remove, got %d", len(g.Members))
	}

	groups.RemoveMember(g, stays)
	if len(g.Members) != 0 {
		t.Errorf("expected 0 members after remove, got %d", len(g.Members))
	}
}

func TestRoleOf(t *testing.T) {
	g := newGroup(5)
	now := time.Now().UTC()
	admin := primitive.NewObjectID()
	if err := groups.AddMember(g, admin, models.RoleAdmin, now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if got := groups.RoleOf(g, admin); got != models.RoleAdmin {
		t.Errorf("RoleOf: got %q, want %q", got, models.RoleAdmin)
	}
	if got := groups.RoleOf(g, primitive.NewObjectID()); got != "" {
		t.Errorf("RoleOf for non-member: got %q, want empty", got)
	}
	if !groups.IsMember(g, admin) {
		t.Error("IsMember should report true for the admin")
	}
}

func TestChangeRole(t *testing.T) {
	g := newGroup(5)
	now := time.Now().UTC()
	userID := primitive.NewObjectID()
	if err := groups.AddMember(g, userID, models.RoleMember, now); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if err := groups.ChangeRole(g, userID, models.RoleModerator); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}
	if got := groups.RoleOf(g, userID); got != models.RoleModerator {
		t.Errorf("RoleOf after change: got %q, want %q", got, models.RoleModerator)
	}

	if err := groups.ChangeRole(g, primitive.NewObjectID(), models.RoleAdmin); !errors.Is(err, groups.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-member, got %v", err)
	}
	if err := groups.ChangeRole(g, userID, "owner"); !errors.Is(err, groups.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
