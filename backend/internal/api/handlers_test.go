package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lingograph/backend/internal/catalog"
	"lingograph/backend/internal/recommend"
	"lingograph/backend/pkg/config"
	apperrors "lingograph/backend/pkg/errors"
)

type stubEngine struct {
	struggles     []recommend.StruggleRecord
	similar       []recommend.SimilarityRecord
	collaborative []recommend.CollaborativeRecord
	social        []recommend.SocialRecord
	network       []recommend.NetworkPeer
	err           error
	calls         int
}

func (s *stubEngine) Struggles(ctx context.Context, userID string) ([]recommend.StruggleRecord, error) {
	s.calls++
	return s.struggles, s.err
}

func (s *stubEngine) Similar(ctx context.Context, userID string) ([]recommend.SimilarityRecord, error) {
	s.calls++
	return s.similar, s.err
}

func (s *stubEngine) Collaborative(ctx context.Context, userID string) ([]recommend.CollaborativeRecord, error) {
	s.calls++
	return s.collaborative, s.err
}

func (s *stubEngine) Social(ctx context.Context, userID string) ([]recommend.SocialRecord, error) {
	s.calls++
	return s.social, s.err
}

func (s *stubEngine) Network(ctx context.Context, userID string) ([]recommend.NetworkPeer, error) {
	s.calls++
	return s.network, s.err
}

type stubCatalog struct {
	profile *catalog.UserProfile
	err     error
}

func (s *stubCatalog) GetUser(ctx context.Context, userID string) (*catalog.UserProfile, error) {
	return s.profile, s.err
}

func (s *stubCatalog) ListUsers(ctx context.Context) ([]catalog.UserSummary, error) {
	return []catalog.UserSummary{}, s.err
}

func (s *stubCatalog) ListCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	return []catalog.CourseSummary{}, s.err
}

func (s *stubCatalog) CourseLessons(ctx context.Context, courseID string) ([]catalog.LessonDetail, error) {
	return []catalog.LessonDetail{}, s.err
}

func (s *stubCatalog) GetStats(ctx context.Context) (*catalog.Stats, error) {
	return &catalog.Stats{}, s.err
}

func newTestRouter(engine RecommendationEngine, cat CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: "test", AllowedOrigins: []string{"*"}}
	return NewRouter(NewHandler(engine, cat), cfg, zap.NewNop())
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestInvalidUserIDRejectedBeforeEngine(t *testing.T) {
	engine := &stubEngine{}
	router := newTestRouter(engine, &stubCatalog{})

	for _, path := range []string{
		"/api/recommendations/struggles/zzz",
		"/api/recommendations/similar/1u",
		"/api/recommendations/collaborative/u",
		"/api/recommendations/social/u1x",
		"/api/network/U1",
	} {
		w := doRequest(router, http.MethodGet, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	}

	// validation happens before any engine access
	assert.Equal(t, 0, engine.calls)
}

func TestStrugglesEnvelope(t *testing.T) {
	difficulty := 4
	engine := &stubEngine{struggles: []recommend.StruggleRecord{
		{LessonID: "L3", Topic: "subjuntivo_1", Difficulty: &difficulty, Description: "Subjunctive mood."},
	}}
	router := newTestRouter(engine, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/recommendations/struggles/u1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success     bool                       `json:"success"`
		UserID      string                     `json:"userId"`
		Type        string                     `json:"type"`
		Description string                     `json:"description"`
		Data        []recommend.StruggleRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, "u1", body.UserID)
	assert.Equal(t, "struggles", body.Type)
	assert.NotEmpty(t, body.Description)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "L3", body.Data[0].LessonID)
}

func TestEmptyResultIsStillSuccess(t *testing.T) {
	engine := &stubEngine{struggles: []recommend.StruggleRecord{}}
	router := newTestRouter(engine, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/recommendations/struggles/u42")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].([]any)
	require.True(t, ok, "data must be an array, not null")
	assert.Empty(t, data)
}

func TestSocialEnvelopeCarriesBothCountKeys(t *testing.T) {
	engine := &stubEngine{social: []recommend.SocialRecord{
		{LessonID: "L7", Topic: "articles_1", FriendCount: 1, FriendsCompleted: 1},
	}}
	router := newTestRouter(engine, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/recommendations/social/u5")
	require.Equal(t, http.StatusOK, w.Code)

	raw := w.Body.String()
	assert.Contains(t, raw, `"type":"social"`)
	assert.Contains(t, raw, `"friend_count":1`)
	assert.Contains(t, raw, `"friends_completed":1`)
}

func TestNetworkEnvelope(t *testing.T) {
	engine := &stubEngine{network: []recommend.NetworkPeer{
		{UserID: "u2", Name: "Carlos López", Distance: 1, Relationship: "direct friend"},
		{UserID: "u9", Name: "Carmen Ruiz", Distance: 2, Relationship: "friend of a friend"},
	}}
	router := newTestRouter(engine, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/network/u1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                    `json:"success"`
		UserID  string                  `json:"userId"`
		Data    []recommend.NetworkPeer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "direct friend", body.Data[0].Relationship)
	assert.Equal(t, "friend of a friend", body.Data[1].Relationship)
}

func TestStoreErrorReturnsFailureEnvelope(t *testing.T) {
	engine := &stubEngine{err: apperrors.NewGraphQueryFailed("MATCH ...", assert.AnError)}
	router := newTestRouter(engine, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/recommendations/collaborative/u1")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGetUserNotFound(t *testing.T) {
	cat := &stubCatalog{err: apperrors.NewGraphUserNotFound("u404")}
	router := newTestRouter(&stubEngine{}, cat)

	w := doRequest(router, http.MethodGet, "/api/users/u404")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubEngine{}, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
}

func TestUnknownRouteReturnsCatalogue(t *testing.T) {
	router := newTestRouter(&stubEngine{}, &stubCatalog{})

	w := doRequest(router, http.MethodGet, "/api/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "availableEndpoints")
}
