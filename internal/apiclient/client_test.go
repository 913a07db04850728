package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hobbyhub-client/internal/apiclient"
	"hobbyhub-client/internal/logging"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

const (
	projectID = "123e4567-e89b-12d3-a456-426614174000"
	fileID    = "9b2f8c1e-4d3a-4f5b-8c7d-0e1f2a3b4c5d"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

// newServer answers every request with status and body and records what it saw.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestListProjects_UnwrapsProjectsAndPagination(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{
		"success": true,
		"projects": [{"id": "p1", "title": "Robot arm"}],
		"pagination": {"page": 2, "limit": 10, "total": 11, "totalPages": 2}
	}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL+"/api/", apiclient.WithToken("tok")))

	res, err := svc.ListProjects(context.Background(), models.ProjectFilters{Page: 2, Limit: 10, Tags: []string{"robots"}})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Robot arm", res.Data[0].Title)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, 11, res.Pagination.Total)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/projects", call.path)
	assert.Equal(t, "limit=10&page=2&tags=robots", call.query)
	assert.Equal(t, "Bearer tok", call.auth)
}

func TestListProjects_EmptyListIsNotNil(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success": true}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	res, err := svc.ListProjects(context.Background(), models.ProjectFilters{})
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestGetProject_SuccessFalsePassedThrough(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success": false, "error": "Project is archived"}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	res, err := svc.GetProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Project is archived", res.Error)
	assert.Nil(t, res.Data)
}

func TestGetProject_ErrorStatusUsesBackendMessage(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"success": false, "error": "Project not found"}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	res, err := svc.GetProject(context.Background(), projectID)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, "Project not found", err.Error())
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
	assert.False(t, apiclient.IsNetworkError(err))
}

func TestGetProject_ErrorStatusWithoutJSON(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	_, err := svc.GetProject(context.Background(), projectID)
	require.Error(t, err)
	assert.Equal(t, "HTTP error! status: 502", apiclient.ErrorMessage(err))
}

func TestNetworkFailureHasFixedMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := apiclient.NewProjectService(apiclient.NewClient(url))
	_, err := svc.DeleteProject(context.Background(), projectID)
	require.Error(t, err)
	assert.True(t, apiclient.IsNetworkError(err))
	assert.Equal(t, apiclient.NetworkErrorMessage, err.Error())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestCancelledContextIsNotANetworkError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success": true}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.GetProject(ctx, projectID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, apiclient.IsNetworkError(err))
}

func TestSuccessBodyThatIsNotJSON(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `not json`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	_, err := svc.GetProject(context.Background(), projectID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestCreateProject_SendsNormalizedPayload(t *testing.T) {
	srv, calls := newServer(t, http.StatusCreated, `{"success": true, "project": {"id": "p9", "title": "Cedar canoe"}}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	res, err := svc.CreateProject(context.Background(), models.CreateProjectRequest{
		Title:       "  Cedar canoe  ",
		Description: "Strip-built canoe from western red cedar.",
		Tags:        []string{"Woodworking", "woodworking ", "boats"},
		Visibility:  models.VisibilityPublic,
		Difficulty:  models.DifficultyAdvanced,
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", res.Data.ID)

	require.Len(t, *calls, 1)
	body := (*calls)[0].body
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, "Cedar canoe", body["title"])
	assert.Equal(t, []interface{}{"woodworking", "boats"}, body["tags"])
}

func TestCreateProject_InvalidSendsNothing(t *testing.T) {
	srv, calls := newServer(t, http.StatusCreated, `{"success": true}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	_, err := svc.CreateProject(context.Background(), models.CreateProjectRequest{Title: "abc"})
	require.Error(t, err)
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("title"))
	assert.Empty(t, *calls)
}

func TestAddUpdate_UnwrapsUpdate(t *testing.T) {
	srv, calls := newServer(t, http.StatusCreated, `{"success": true, "update": {"id": "u1", "title": "Hull glassed"}}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	progress := 40
	res, err := svc.AddUpdate(context.Background(), projectID, models.AddUpdateRequest{
		Title:              "Hull glassed",
		Content:            "Two layers of 6oz cloth.",
		ProgressPercentage: &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.Data.ID)
	assert.Equal(t, "/projects/"+projectID+"/updates", (*calls)[0].path)
	assert.Equal(t, float64(40), (*calls)[0].body["progressPercentage"])
}

func TestLikeAndRepost(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"success": true, "message": "ok", "liked": true, "repostCount": 4}`)
	svc := apiclient.NewProjectService(apiclient.NewClient(srv.URL))

	like, err := svc.LikeProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.True(t, like.Liked)
	assert.Equal(t, "ok", like.Message)

	repost, err := svc.RepostProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, 4, repost.RepostCount)

	assert.Equal(t, "/projects/"+projectID+"/like", (*calls)[0].path)
	assert.Equal(t, "/projects/"+projectID+"/repost", (*calls)[1].path)
}

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func TestTokenSourceFailureStopsRequest(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"success": true}`)
	client := apiclient.NewClient(srv.URL, apiclient.WithTokenSource(tokenFunc(func(context.Context) (string, error) {
		return "", errors.New("session expired")
	})))

	_, err := apiclient.NewProjectService(client).GetProject(context.Background(), projectID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
	assert.Empty(t, *calls)
}

type failingTransport struct {
	calls int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, errors.New("connection refused")
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	transport := &failingTransport{}
	cb := apiclient.NewCircuitBreaker("projects-api", 2, logging.Discard())
	client := apiclient.NewClient("http://hobbyhub.invalid/api",
		apiclient.WithHTTPClient(&http.Client{Transport: transport}),
		apiclient.WithCircuitBreaker(cb),
	)
	svc := apiclient.NewProjectService(client)

	for i := 0; i < 2; i++ {
		_, err := svc.GetProject(context.Background(), projectID)
		require.True(t, apiclient.IsNetworkError(err))
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := svc.GetProject(context.Background(), projectID)
	assert.True(t, apiclient.IsNetworkError(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), atomic.LoadInt32(&transport.calls))
}

// cancelledTransport fails the way a transport does when its caller gives up.
type cancelledTransport struct{}

func (cancelledTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, context.Canceled
}

func TestCircuitBreakerIgnoresCancelledCalls(t *testing.T) {
	cb := apiclient.NewCircuitBreaker("projects-api", 1, logging.Discard())
	client := apiclient.NewClient("http://hobbyhub.invalid/api",
		apiclient.WithHTTPClient(&http.Client{Transport: cancelledTransport{}}),
		apiclient.WithCircuitBreaker(cb),
	)
	svc := apiclient.NewProjectService(client)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.GetProject(ctx, projectID)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, uint32(0), cb.Counts().ConsecutiveFailures)
}

func TestFail(t *testing.T) {
	res := apiclient.Fail[[]models.Project](&apiclient.NetworkError{Err: io.EOF})
	assert.False(t, res.Success)
	assert.Equal(t, apiclient.NetworkErrorMessage, res.Error)

	assert.Equal(t, "", apiclient.ErrorMessage(nil))
	assert.Equal(t, "boom", apiclient.ErrorMessage(errors.New("boom")))
}
