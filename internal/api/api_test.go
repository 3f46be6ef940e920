package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personascape/backend/config"
	"github.com/personascape/backend/internal/api"
	"github.com/personascape/backend/internal/testhelpers"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	router := gin.New()
	api.RegisterRoutes(router, db, nil, nil, cfg)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signupAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func createProfile(t *testing.T, router *gin.Engine, token, bio string) uint {
	t.Helper()

	w := doJSON(t, router, http.MethodPut, "/profile", token, gin.H{"bio": bio})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["id"].(float64))
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestSignupValidation(t *testing.T) {
	router := setupRouter(t)

	// Username below the minimum length.
	w := doJSON(t, router, http.MethodPost, "/auth/signup", "", gin.H{
		"username": "ab",
		"email":    "ab@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed email.
	w = doJSON(t, router, http.MethodPost, "/auth/signup", "", gin.H{
		"username": "alice",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMe(t *testing.T) {
	router := setupRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])

	w = doJSON(t, router, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileLifecycle(t *testing.T) {
	router := setupRouter(t)
	token := signupAndLogin(t, router, "alice")

	// The profile does not exist before the first save.
	w := doJSON(t, router, http.MethodGet, "/profile/alice", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/profile", token, gin.H{
		"bio":     "hello",
		"theme":   "dark",
		"hobbies": "chess",
		"socialLinks": []gin.H{
			{"platform": "github", "url": "https://github.com/alice"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "hello", body["bio"])
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, float64(0), body["likesCount"])

	// Partial update keeps untouched fields.
	w = doJSON(t, router, http.MethodPut, "/profile", token, gin.H{"bio": "updated"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/profile/alice", "", nil)
	body = decodeBody(t, w)
	assert.Equal(t, "updated", body["bio"])
	assert.Equal(t, "dark", body["theme"])

	// Saving requires authentication.
	w = doJSON(t, router, http.MethodPut, "/profile", "", gin.H{"bio": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeFlow(t *testing.T) {
	router := setupRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")
	profileID := createProfile(t, router, aliceToken, "alice here")

	likePath := fmt.Sprintf("/likes/profile/%d", profileID)

	w := doJSON(t, router, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, w)["likesCount"])

	// Liking twice is rejected and the counter is unchanged.
	w = doJSON(t, router, http.MethodPost, likePath, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/profile/alice", "", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["likesCount"])

	// Owners cannot like their own profile.
	w = doJSON(t, router, http.MethodPost, likePath, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/likes/check/%d", profileID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["hasLiked"])
	assert.Equal(t, float64(1), body["likesCount"])

	w = doJSON(t, router, http.MethodDelete, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["likesCount"])

	// Unliking without a like is rejected.
	w = doJSON(t, router, http.MethodDelete, likePath, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Likes require authentication.
	w = doJSON(t, router, http.MethodPost, likePath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewFlow(t *testing.T) {
	router := setupRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")
	createProfile(t, router, aliceToken, "alice here")

	// Anonymous view counts once per IP per day.
	w := doJSON(t, router, http.MethodPost, "/views/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, w)["viewsCount"])

	w = doJSON(t, router, http.MethodPost, "/views/profile/alice", "", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["viewsCount"])

	// An authenticated viewer from the same IP is distinct.
	w = doJSON(t, router, http.MethodPost, "/views/profile/alice", bobToken, nil)
	assert.Equal(t, float64(2), decodeBody(t, w)["viewsCount"])

	// Self-views never count.
	w = doJSON(t, router, http.MethodPost, "/views/profile/alice", aliceToken, nil)
	assert.Equal(t, float64(2), decodeBody(t, w)["viewsCount"])

	// The breakdown is only exposed to the owner.
	w = doJSON(t, router, http.MethodGet, "/views/profile/alice/stats", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["viewsCount"])
	assert.NotContains(t, body, "uniqueViewers")

	w = doJSON(t, router, http.MethodGet, "/views/profile/alice/stats", aliceToken, nil)
	body = decodeBody(t, w)
	assert.Equal(t, float64(2), body["uniqueViewers"])

	w = doJSON(t, router, http.MethodPost, "/views/profile/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentFlow(t *testing.T) {
	router := setupRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")
	profileID := createProfile(t, router, aliceToken, "alice here")

	w := doJSON(t, router, http.MethodPost, "/comments", bobToken, gin.H{
		"profileId": profileID,
		"content":   "great page",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rootID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, "/comments", aliceToken, gin.H{
		"profileId": profileID,
		"content":   "thanks!",
		"parentId":  rootID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/comments/profile/%d", profileID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 1)
	root := comments[0].(map[string]interface{})
	assert.Equal(t, "great page", root["content"])
	assert.Equal(t, "bob", root["username"])
	assert.Equal(t, float64(1), root["replyCount"])

	// Only the author can edit.
	editPath := fmt.Sprintf("/comments/%d", rootID)
	w = doJSON(t, router, http.MethodPut, editPath, aliceToken, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, editPath, bobToken, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", decodeBody(t, w)["content"])

	// Comment likes toggle.
	likePath := fmt.Sprintf("/comments/%d/like", rootID)
	w = doJSON(t, router, http.MethodPost, likePath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likesCount"])

	w = doJSON(t, router, http.MethodPost, likePath, aliceToken, nil)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["liked"])

	// The profile owner can remove a visitor's comment.
	w = doJSON(t, router, http.MethodDelete, editPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/comments/profile/%d", profileID), "", nil)
	body = decodeBody(t, w)
	assert.Empty(t, body["comments"])

	// Creation requires authentication.
	w = doJSON(t, router, http.MethodPost, "/comments", "", gin.H{
		"profileId": profileID,
		"content":   "anon",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeaderboardEndpoints(t *testing.T) {
	router := setupRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")
	carolToken := signupAndLogin(t, router, "carol")

	aliceID := createProfile(t, router, aliceToken, "alice")
	createProfile(t, router, bobToken, "bob")

	// Two likes for alice, none for bob.
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/likes/profile/%d", aliceID), bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/likes/profile/%d", aliceID), carolToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, path := range []string{"/likes/leaderboard", "/public/leaderboard"} {
		w = doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var entries []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "alice", entries[0]["username"])
		assert.Equal(t, float64(2), entries[0]["likesCount"])
	}

	w = doJSON(t, router, http.MethodGet, "/views/leaderboard?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestLikedProfilesEndpoint(t *testing.T) {
	router := setupRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")
	aliceID := createProfile(t, router, aliceToken, "alice")

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/likes/profile/%d", aliceID), bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/likes/user", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0]["username"])
}

func TestPictureUploadUnavailableWithoutStorage(t *testing.T) {
	router := setupRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/profile/picture", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
