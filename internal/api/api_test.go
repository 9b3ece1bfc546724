package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/config"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/learning"
	"musclemap/prescription-engine/internal/prescription"
	"musclemap/prescription-engine/internal/repository"
	"musclemap/prescription-engine/internal/repository/sqlite"
	"musclemap/prescription-engine/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	tokens service.TokenService
	store  repository.Store
	cache  *cache.TieredCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.NewStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("sqlite.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := db.Repositories()

	tokens, err := service.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	c := cache.New(nil, cache.Options{LocalCapacity: 64})
	collector := learning.NewCollector(nil, learning.CollectorDeps{
		Exercises:   store.Exercises,
		Performance: store.Performance,
		MuscleStats: store.MuscleStats,
		Feedback:    store.Feedback,
		Cache:       c,
	})

	router := gin.New()
	SetupRoutes(router, nil, config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}, Services{
		Tokens:        tokens,
		Prescriptions: service.NewPrescriptionService(nil, store, c, prescription.NewBuilder(nil, prescription.Options{}), nil),
		Learning:      service.NewLearningService(nil, store, collector),
		Catalog:       service.NewCatalogService(nil, store.Exercises, c, nil),
		Cache:         c,
	})
	return &testServer{router: router, tokens: tokens, store: store, cache: c}
}

func (s *testServer) token(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue(userID, role, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func seedExercise(t *testing.T, store repository.Store, id string, p domain.MovementPattern, muscle string) {
	t.Helper()
	ex := &domain.ExerciseMetadata{
		ID:              id,
		Name:            id,
		MovementPattern: p,
		Muscles:         domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: muscle, Activation: 80}}},
		Performance:     domain.PerformanceMetrics{CNSLoad: 4, TechnicalComplexity: 2, MetabolicDemand: 5, BalanceRequirement: 3},
		Effectiveness:   domain.EffectivenessRatings{ByGoal: map[domain.Goal]float64{domain.GoalGeneralFitness: 7}},
	}
	if err := store.Exercises.Upsert(context.Background(), ex); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if rec.Header().Get(headerRequestID) == "" {
		t.Fatalf("missing %s header", headerRequestID)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/api/v1/me/weights", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=401 got=%d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/me/weights", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/api/v1/me/weights", s.token(t, "u1", domain.RoleUser), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	s := newTestServer(t)
	body := CacheEventRequest{Event: cache.EventWorkoutComplete, Key: "u1"}

	if rec := s.do(t, http.MethodPost, "/api/v1/admin/cache/events", s.token(t, "u1", domain.RoleUser), body); rec.Code != http.StatusForbidden {
		t.Fatalf("user role: want=403 got=%d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/admin/cache/events", s.token(t, "ops", domain.RoleAdmin), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Invalidated []cache.Entity `json:"invalidated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []cache.Entity{cache.EntityUserPerformance, cache.EntityMuscleStats, cache.EntityRecoveryScore}
	if len(resp.Invalidated) != len(want) {
		t.Fatalf("invalidated: want=%v got=%v", want, resp.Invalidated)
	}
	for i := range want {
		if resp.Invalidated[i] != want[i] {
			t.Fatalf("invalidated: want=%v got=%v", want, resp.Invalidated)
		}
	}

	rec = s.do(t, http.MethodPost, "/api/v1/admin/cache/events", s.token(t, "ops", domain.RoleAdmin), CacheEventRequest{Event: "moon_phase"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown event: want=400 got=%d", rec.Code)
	}
}

func TestPrescriptionLifecycle(t *testing.T) {
	s := newTestServer(t)
	for _, e := range []struct {
		id      string
		pattern domain.MovementPattern
		muscle  string
	}{
		{"air-squat", domain.PatternSquat, "quads"},
		{"glute-bridge", domain.PatternHipHinge, "glutes"},
		{"push-up", domain.PatternHorizontalPush, "chest"},
		{"inverted-row", domain.PatternHorizontalPull, "lats"},
		{"pike-push-up", domain.PatternVerticalPush, "front_delts"},
		{"split-squat", domain.PatternLunge, "adductors"},
	} {
		seedExercise(t, s.store, e.id, e.pattern, e.muscle)
	}
	userTok := s.token(t, "u1", domain.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/v1/prescriptions", userTok, service.GenerateRequest{TimeAvailable: 30, Location: domain.LocationGym})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: want=201 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var created domain.PrescriptionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || len(created.Exercises) == 0 {
		t.Fatalf("created: id=%q exercises=%d", created.ID, len(created.Exercises))
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/prescriptions/"+created.ID, userTok, nil); rec.Code != http.StatusOK {
		t.Fatalf("get own: want=200 got=%d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/prescriptions/"+created.ID, s.token(t, "u2", domain.RoleUser), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get foreign: want=404 got=%d", rec.Code)
	}

	bad := domain.PrescriptionFeedback{PrescriptionID: created.ID, OverallSatisfaction: 0}
	if rec := s.do(t, http.MethodPost, "/api/v1/feedback", userTok, bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid feedback: want=400 got=%d", rec.Code)
	}
	good := domain.PrescriptionFeedback{PrescriptionID: created.ID, OverallSatisfaction: 4, ExercisesCompleted: len(created.Exercises)}
	if rec := s.do(t, http.MethodPost, "/api/v1/feedback", userTok, good); rec.Code != http.StatusCreated {
		t.Fatalf("feedback: want=201 got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/v1/prescriptions", userTok, service.GenerateRequest{TimeAvailable: 500})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("too long: want=400 got=%d", rec.Code)
	}
}

func TestLogSetAndPreferences(t *testing.T) {
	s := newTestServer(t)
	seedExercise(t, s.store, "push-up", domain.PatternHorizontalPush, "chest")
	userTok := s.token(t, "u1", domain.RoleUser)

	enjoyment := 5
	set := domain.SetLog{ExerciseID: "push-up", Reps: 15, Success: true, NewSession: true, Enjoyment: &enjoyment}
	if rec := s.do(t, http.MethodPost, "/api/v1/performance/sets", userTok, set); rec.Code != http.StatusOK {
		t.Fatalf("log set: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPost, "/api/v1/performance/sets", userTok, domain.SetLog{ExerciseID: "nope", Reps: 3}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown exercise: want=404 got=%d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/me/preferences", userTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences: want=200 got=%d", rec.Code)
	}
	var prof struct {
		Exercises []struct {
			ExerciseID string `json:"exerciseId"`
		} `json:"exercises"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prof); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prof.Exercises) != 1 || prof.Exercises[0].ExerciseID != "push-up" {
		t.Fatalf("preferences: got %+v", prof.Exercises)
	}

	if rec := s.do(t, http.MethodPost, "/api/v1/workouts/complete", userTok, nil); rec.Code != http.StatusAccepted {
		t.Fatalf("complete workout: want=202 got=%d", rec.Code)
	}
}

func TestUpsertExerciseIDMismatch(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.token(t, "ops", domain.RoleAdmin)
	ex := domain.ExerciseMetadata{
		ID:              "other",
		Name:            "Goblet Squat",
		MovementPattern: domain.PatternSquat,
		Muscles:         domain.MuscleActivations{Primary: []domain.MuscleActivation{{MuscleID: "quads", Activation: 85}}},
	}
	if rec := s.do(t, http.MethodPut, "/api/v1/admin/exercises/goblet-squat", adminTok, ex); rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatch: want=400 got=%d", rec.Code)
	}
	ex.ID = ""
	if rec := s.do(t, http.MethodPut, "/api/v1/admin/exercises/goblet-squat", adminTok, ex); rec.Code != http.StatusOK {
		t.Fatalf("upsert: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec := s.do(t, http.MethodGet, "/api/v1/exercises?pattern=squat", s.token(t, "u1", domain.RoleUser), nil)
	var list []ExerciseSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 || list[0].ID != "goblet-squat" {
		t.Fatalf("list: %+v err=%v", list, err)
	}
	if rec := s.do(t, http.MethodPost, "/api/v1/admin/exercises/goblet-squat/video-upload-url", adminTok, VideoUploadRequest{ContentType: "video/mp4"}); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no media storage: want=503 got=%d", rec.Code)
	}
}
