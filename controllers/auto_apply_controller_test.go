package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoapply/services"
	"autoapply/utils"
)

type stubEngine struct {
	applied []string
}

func (s *stubEngine) Apply(ctx context.Context, req *services.ApplyRequest) *services.ApplicationOutcome {
	s.applied = append(s.applied, req.JobURL)
	return &services.ApplicationOutcome{
		AttemptID: "attempt-1",
		Success:   true,
		Method:    services.MethodBrowserAutomation,
		Platform:  services.ClassifyPlatform(req.JobURL),
		JobURL:    req.JobURL,
		Timestamp: time.Now().UTC(),
	}
}

func (s *stubEngine) ApplyBatch(ctx context.Context, reqs []*services.ApplyRequest) []*services.ApplicationOutcome {
	outcomes := make([]*services.ApplicationOutcome, len(reqs))
	for i, req := range reqs {
		outcomes[i] = s.Apply(ctx, req)
	}
	return outcomes
}

func applyTestRouter(engine applyEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewAutoApplyController(engine, nil)
	router := gin.New()
	router.POST("/api/auto-apply", controller.Apply)
	router.POST("/api/auto-apply/batch", controller.ApplyBatch)
	router.GET("/api/auto-apply/history", controller.History)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestApplyEndpoint_Success(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply", services.ApplyRequest{
		JobURL:  "https://careers.acme.com/job/1",
		Profile: &services.UserProfileData{Email: "ada@example.com"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"https://careers.acme.com/job/1"}, engine.applied)

	var resp utils.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestApplyEndpoint_MissingJobURL(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply", gin.H{"profile": gin.H{"email": "ada@example.com"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.applied)
}

func TestApplyEndpoint_RelativeJobURL(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply", gin.H{"job_url": "/jobs/view/1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.applied)
}

func TestBatchEndpoint_Success(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply/batch", gin.H{
		"requests": []gin.H{
			{"job_url": "https://careers.acme.com/job/1"},
			{"job_url": "https://www.linkedin.com/jobs/view/2"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, engine.applied, 2)
}

func TestBatchEndpoint_EmptyRequests(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply/batch", gin.H{"requests": []gin.H{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.applied)
}

func TestBatchEndpoint_RejectsBadURLInBatch(t *testing.T) {
	engine := &stubEngine{}
	router := applyTestRouter(engine)

	w := postJSON(t, router, "/api/auto-apply/batch", gin.H{
		"requests": []gin.H{
			{"job_url": "https://careers.acme.com/job/1"},
			{"job_url": "not-a-url"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.applied, "a bad URL must fail the batch before any attempt runs")
}

func TestHistoryEndpoint_WithoutDatabase(t *testing.T) {
	router := applyTestRouter(&stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auto-apply/history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
