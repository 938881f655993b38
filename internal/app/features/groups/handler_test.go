package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	groupsfeature "github.com/campushq/studyhub/internal/app/features/groups"
	groupsvc "github.com/campushq/studyhub/internal/app/service/groups"
	groupstore "github.com/campushq/studyhub/internal/app/store/groups"
	"github.com/campushq/studyhub/internal/domain/models"
	"github.com/campushq/studyhub/internal/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := groupsvc.New(groupstore.NewMem(), zap.NewNop())
	h := groupsfeature.NewHandler(svc, 10, zap.NewNop())
	return groupsfeature.Routes(h)
}

func createGroupVia(t *testing.T, router http.Handler, isPublic bool, creator primitive.ObjectID) models.StudyGroup {
	t.Helper()

	req := testutil.NewJSONRequestAs(t, http.MethodPost, "/", map[string]any{
		"name":      "Organic Chemistry",
		"subject":   "Chemistry",
		"is_public": isPublic,
	}, creator)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: got %d, body %s", rec.Code, rec.Body.String())
	}
	var g models.StudyGroup
	testutil.DecodeJSON(t, rec, &g)
	return g
}

func TestHandleCreateGroup(t *testing.T) {
	router := newRouter(t)
	creator := primitive.NewObjectID()

	g := createGroupVia(t, router, true, creator)
	if g.Name != "Organic Chemistry" || !g.IsPublic {
		t.Errorf("created group mismatch: %+v", g)
	}
	if len(g.Members) != 1 || g.Members[0].UserID != creator || g.Members[0].Role != models.RoleAdmin {
		t.Errorf("creator should be sole admin member: %+v", g.Members)
	}
	if g.MaxMembers != 10 {
		t.Errorf("default capacity: got %d, want 10", g.MaxMembers)
	}
}

func TestHandleCreateGroup_PrivateReturnsAccessCode(t *testing.T) {
	router := newRouter(t)

	g := createGroupVia(t, router, false, primitive.NewObjectID())
	if g.AccessCode == "" {
		t.Error("private group response missing access code")
	}
}

func TestHandleCreateGroup_MissingIdentity(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "X"})
	req.Header.Del("X-User-ID")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeGroup_NotFound(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleAddMember_DuplicateConflicts(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, true, primitive.NewObjectID())
	userID := primitive.NewObjectID()

	add := func() *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/members",
			map[string]any{"user_id": userID.Hex()})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := add(); rec.Code != http.StatusOK {
		t.Fatalf("first add: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := add(); rec.Code != http.StatusConflict {
		t.Errorf("duplicate add: expected 409, got %d", rec.Code)
	}
}

func TestHandleAddMember_InvalidRole(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, true, primitive.NewObjectID())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/members",
		map[string]any{"user_id": primitive.NewObjectID().Hex(), "role": "owner"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleJoinByAccessCode(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, false, primitive.NewObjectID())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/join",
		map[string]any{"access_code": g.AccessCode})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("join by code: got %d, body %s", rec.Code, rec.Body.String())
	}
	var joined models.StudyGroup
	testutil.DecodeJSON(t, rec, &joined)
	if len(joined.Members) != 2 {
		t.Errorf("expected 2 members after join, got %d", len(joined.Members))
	}
}

func TestHandleJoinByAccessCode_UnknownCode(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/join",
		map[string]any{"access_code": "ZZZZZZ"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMeetingEndpoints(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, true, primitive.NewObjectID())

	// Schedule a meeting an hour out.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/meetings", map[string]any{
		"title":        "Review session",
		"scheduled_at": time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("schedule: got %d, body %s", rec.Code, rec.Body.String())
	}
	var m models.Meeting
	testutil.DecodeJSON(t, rec, &m)
	if m.Status != models.MeetingScheduled || m.DurationMinutes != models.DefaultMeetingMinutes {
		t.Errorf("scheduled meeting mismatch: %+v", m)
	}

	// Status endpoint: waiting before the window opens.
	req = testutil.NewJSONRequest(t, http.MethodGet, "/"+g.ID.Hex()+"/meetings/"+m.ID+"/status", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var st struct {
		Status  string `json:"status"`
		CanJoin bool   `json:"can_join"`
	}
	testutil.DecodeJSON(t, rec, &st)
	if st.Status != models.MeetingWaiting || st.CanJoin {
		t.Errorf("pre-window status: %+v", st)
	}

	// Manual start flips it to active.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/meetings/"+m.ID+"/start",
		map[string]any{"room_link": "https://rooms.example/abc"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: got %d, body %s", rec.Code, rec.Body.String())
	}
	var started models.Meeting
	testutil.DecodeJSON(t, rec, &started)
	if started.Status != models.MeetingActive || !started.IsLive {
		t.Errorf("started meeting mismatch: %+v", started)
	}

	// Cancelling an active meeting is rejected.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/meetings/"+m.ID+"/cancel", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("cancel active: expected 409, got %d", rec.Code)
	}
}

func TestHandleAppendMessage(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, true, primitive.NewObjectID())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/messages",
		map[string]any{"content": "anyone up for <b>flashcards</b>?"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("append: got %d, body %s", rec.Code, rec.Body.String())
	}
	var msg models.ChatMessage
	testutil.DecodeJSON(t, rec, &msg)
	if msg.Content != "anyone up for flashcards?" {
		t.Errorf("content not sanitized: %q", msg.Content)
	}

	// Read the log back.
	req = testutil.NewJSONRequest(t, http.MethodGet, "/"+g.ID.Hex()+"/messages", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list messages: got %d", rec.Code)
	}
	var log []models.ChatMessage
	testutil.DecodeJSON(t, rec, &log)
	if len(log) != 1 || log[0].ID != msg.ID {
		t.Errorf("message log mismatch: %+v", log)
	}
}

func TestHandleAppendMessage_InvalidType(t *testing.T) {
	router := newRouter(t)
	g := createGroupVia(t, router, true, primitive.NewObjectID())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+g.ID.Hex()+"/messages",
		map[string]any{"content": "hi", "type": "sticker"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}
