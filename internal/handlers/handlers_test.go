package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hobbyhub-client/internal/database"
	"hobbyhub-client/internal/handlers"
	"hobbyhub-client/internal/logging"
	"hobbyhub-client/internal/middleware"
	"hobbyhub-client/internal/models"
)

const jwtSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newTestRouter(t *testing.T) (*gin.Engine, *database.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()
	return handlers.NewRouter(store, jwtSecret, logging.Discard()), store
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.IssueToken(jwtSecret, userID, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, models.Envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env models.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Walnut bookshelf",
		"description": "Dovetailed shelves with a hand-rubbed oil finish.",
		"tags":        []string{"Woodworking", "furniture"},
		"visibility":  "public",
		"difficulty":  "intermediate",
	}
}

func createProject(t *testing.T, router *gin.Engine, userID string) models.Project {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/projects", userID, createBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, env.Project)
	return *env.Project
}

func TestHealthHandler(t *testing.T) {
	router, _ := newTestRouter(t)
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPIRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)
	w, env := doJSON(t, router, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "missing authorization header", env.Error)
}

func TestCreateProject(t *testing.T) {
	router, _ := newTestRouter(t)
	p := createProject(t, router, "alice")

	assert.Equal(t, "alice", p.OwnerID)
	assert.Equal(t, []string{"woodworking", "furniture"}, p.Tags)
	assert.Equal(t, database.DefaultStatus, p.Status)
	assert.NotEmpty(t, p.ID)
}

func TestCreateProject_Invalid(t *testing.T) {
	router, _ := newTestRouter(t)
	body := createBody()
	body["title"] = "abc"
	body["visibility"] = "squad_only"

	w, env := doJSON(t, router, http.MethodPost, "/api/projects", "alice", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "title must be at least 5 characters")
	assert.Contains(t, env.Error, "squad_only visibility requires a squad")
}

func TestGetProject_NotFoundAndBadID(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/api/projects/123e4567-e89b-12d3-a456-426614174000", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", env.Error)

	w, env = doJSON(t, router, http.MethodGet, "/api/projects/nope", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid project id", env.Error)
}

func TestPrivateProjectHiddenFromOthers(t *testing.T) {
	router, _ := newTestRouter(t)
	body := createBody()
	body["visibility"] = "private"
	w, env := doJSON(t, router, http.MethodPost, "/api/projects", "alice", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/api/projects/"+env.Project.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, list := doJSON(t, router, http.MethodGet, "/api/projects", "bob", nil)
	assert.Empty(t, list.Projects)
	_, list = doJSON(t, router, http.MethodGet, "/api/projects", "alice", nil)
	assert.Len(t, list.Projects, 1)
}

func TestListProjects_Pagination(t *testing.T) {
	router, _ := newTestRouter(t)
	for i := 0; i < 3; i++ {
		createProject(t, router, "alice")
	}

	w, env := doJSON(t, router, http.MethodGet, "/api/projects?page=2&limit=2&tags=woodworking", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Len(t, env.Projects, 1)
	assert.Equal(t, &models.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, env.Pagination)
}

func TestEmptyCollectionsAreEncodedAsArrays(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/api/projects", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.JSONEq(t, `[]`, string(list["projects"]))
	assert.Contains(t, list, "pagination")

	created := createProject(t, router, "alice")
	w, _ = doJSON(t, router, http.MethodGet, "/api/projects/"+created.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Project map[string]json.RawMessage `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body.Project["files"]))
	assert.JSONEq(t, `[]`, string(body.Project["updates"]))
}

func TestUpdateProject_OwnerOnlyAndPartial(t *testing.T) {
	router, _ := newTestRouter(t)
	p := createProject(t, router, "alice")
	path := "/api/projects/" + p.ID

	w, env := doJSON(t, router, http.MethodPut, path, "bob", map[string]interface{}{"title": "Hijacked title"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only the project owner can update it", env.Error)

	w, env = doJSON(t, router, http.MethodPut, path, "alice", map[string]interface{}{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", env.Project.Status)
	assert.Equal(t, p.Title, env.Project.Title)

	w, _ = doJSON(t, router, http.MethodPut, path, "alice", map[string]interface{}{"visibility": "squad_only"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilesAndUpdatesEmbeddedInProject(t *testing.T) {
	router, _ := newTestRouter(t)
	p := createProject(t, router, "alice")
	base := "/api/projects/" + p.ID

	w, env := doJSON(t, router, http.MethodPost, base+"/files", "alice", map[string]interface{}{
		"filename": "plans.pdf",
		"fileUrl":  "https://cdn.example.com/plans.pdf",
		"fileType": "application/pdf",
		"fileSize": 1024,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fileID := env.File.ID
	assert.Equal(t, "alice", env.File.UploadedBy)

	w, env = doJSON(t, router, http.MethodPost, base+"/updates", "alice", map[string]interface{}{
		"title":              "Glue-up",
		"content":            "Carcass glued and squared.",
		"progressPercentage": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 50, *env.Update.ProgressPercentage)

	_, env = doJSON(t, router, http.MethodGet, base, "bob", nil)
	require.Len(t, env.Project.Files, 1)
	require.Len(t, env.Project.Updates, 1)

	w, _ = doJSON(t, router, http.MethodDelete, base+"/files/"+fileID, "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, router, http.MethodDelete, base+"/files/"+fileID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "File deleted successfully", env.Message)

	w, env = doJSON(t, router, http.MethodDelete, base+"/files/"+fileID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", env.Error)
}

func TestAddUpdate_Validation(t *testing.T) {
	router, _ := newTestRouter(t)
	p := createProject(t, router, "alice")

	w, env := doJSON(t, router, http.MethodPost, "/api/projects/"+p.ID+"/updates", "alice", map[string]interface{}{
		"title":              "  ",
		"content":            "x",
		"progressPercentage": 150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "title is required")
}

func TestLikeToggleAndRepost(t *testing.T) {
	router, _ := newTestRouter(t)
	p := createProject(t, router, "alice")
	base := "/api/projects/" + p.ID

	_, env := doJSON(t, router, http.MethodPost, base+"/like", "bob", nil)
	require.NotNil(t, env.Liked)
	assert.True(t, *env.Liked)
	assert.Equal(t, "Project liked", env.Message)

	w, _ := doJSON(t, router, http.MethodPost, base+"/like", "bob", nil)
	assert.JSONEq(t, `{"success":true,"liked":false,"message":"Project unliked"}`, w.Body.String())

	_, env = doJSON(t, router, http.MethodPost, base+"/repost", "bob", nil)
	assert.Equal(t, 1, *env.RepostCount)
	_, env = doJSON(t, router, http.MethodPost, base+"/repost", "carol", nil)
	assert.Equal(t, 2, *env.RepostCount)
}

func TestDeleteProject(t *testing.T) {
	router, store := newTestRouter(t)
	p := createProject(t, router, "alice")

	w, _ := doJSON(t, router, http.MethodDelete, "/api/projects/"+p.ID, "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, router, http.MethodDelete, "/api/projects/"+p.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Project deleted successfully", env.Message)

	_, err := store.GetProject(t.Context(), p.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
