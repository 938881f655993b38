package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/campushq/studyhub/internal/app/store/groups"
	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	"github.com/campushq/studyhub/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStoreLoadRoundtrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Roundtrip")
	got, err := store.Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Name != "Roundtrip" || got.Version != 1 || len(got.Members) != 1 {
		t.Errorf("loaded group mismatch: %+v", got)
	}

	_, err = store.Load(ctx, primitive.NewObjectID())
	if !errors.Is(err, groups.ErrNotFound) {
		t.Errorf("missing group: expected ErrNotFound, got %v", err)
	}
}

func TestStoreFindByAccessCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreatePrivateGroup(ctx, "Hidden", "SECRET")
	got, err := store.FindByAccessCode(ctx, "SECRET")
	if err != nil {
		t.Fatalf("FindByAccessCode failed: %v", err)
	}
	if got.ID != g.ID {
		t.Errorf("found wrong group: %s", got.ID.Hex())
	}

	_, err = store.FindByAccessCode(ctx, "NOPE01")
	if !errors.Is(err, groups.ErrNotFound) {
		t.Errorf("unknown code: expected ErrNotFound, got %v", err)
	}
}

func TestStoreInsert_DuplicateAccessCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	fixtures.CreatePrivateGroup(ctx, "First", "CLASH1")

	dup := models.StudyGroup{
		ID:         primitive.NewObjectID(),
		Name:       "Second",
		AccessCode: "CLASH1",
		MaxMembers: 5,
		Version:    1,
	}
	if err := store.Insert(ctx, dup); !errors.Is(err, groupstore.ErrDuplicateAccessCode) {
		t.Errorf("expected ErrDuplicateAccessCode, got %v", err)
	}
}

// The sparse index must not treat two public groups (no access code) as
// duplicates of each other.
func TestStoreInsert_PublicGroupsSkipCodeIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	for _, name := range []string{"Public A", "Public B"} {
		g := models.StudyGroup{
			ID:         primitive.NewObjectID(),
			Name:       name,
			IsPublic:   true,
			MaxMembers: 5,
			Version:    1,
		}
		if err := store.Insert(ctx, g); err != nil {
			t.Fatalf("insert %q failed: %v", name, err)
		}
	}
}

func TestStoreCompareAndSwap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "CAS")

	loaded, err := store.Load(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	loaded.Name = "CAS renamed"
	updated, err := store.CompareAndSwap(ctx, loaded)
	if err != nil {
		t.Fatalf("CompareAndSwap failed: %v", err)
	}
	if updated.Version != loaded.Version+1 {
		t.Errorf("version after swap: got %d, want %d", updated.Version, loaded.Version+1)
	}

	// The pre-swap snapshot is now stale.
	loaded.Name = "stale"
	if _, err := store.CompareAndSwap(ctx, loaded); !errors.Is(err, groupstore.ErrVersionMismatch) {
		t.Errorf("stale swap: expected ErrVersionMismatch, got %v", err)
	}

	got, err := store.Load(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "CAS renamed" {
		t.Errorf("stale write leaked: name %q", got.Name)
	}
}

func TestStoreIDsWithDueMeetings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	due := fixtures.CreateGroup(ctx, "Due")
	future := fixtures.CreateGroup(ctx, "Future")
	fixtures.CreateGroup(ctx, "Idle")

	fixtures.AddScheduledMeeting(ctx, due.ID, uuid.NewString(), now.Add(-10*time.Minute))
	fixtures.AddScheduledMeeting(ctx, future.ID, uuid.NewString(), now.Add(5*time.Hour))

	ids, err := store.IDsWithDueMeetings(ctx, now)
	if err != nil {
		t.Fatalf("IDsWithDueMeetings failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != due.ID {
		t.Errorf("due ids: got %v, want [%s]", ids, due.ID.Hex())
	}
}

func TestStoreDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Doomed")
	n, err := store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}
	if _, err := store.Load(ctx, g.ID); !errors.Is(err, groups.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
