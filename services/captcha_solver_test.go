package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSolver(serverURL string) *TwoCaptchaSolver {
	solver := NewTwoCaptchaSolver("test-key")
	solver.baseURL = serverURL
	solver.pollInterval = 5 * time.Millisecond
	solver.solveTimeout = 500 * time.Millisecond
	return solver
}

func writeCaptchaJSON(t *testing.T, w http.ResponseWriter, status int, request string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(twoCaptchaResponse{Status: status, Request: request})
	require.NoError(t, err)
}

func TestTwoCaptchaSolver_Solve(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/in.php":
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "userrecaptcha", r.URL.Query().Get("method"))
			assert.Equal(t, "site-key-1", r.URL.Query().Get("googlekey"))
			writeCaptchaJSON(t, w, 1, "task-42")
		case "/res.php":
			assert.Equal(t, "task-42", r.URL.Query().Get("id"))
			polls++
			if polls < 3 {
				writeCaptchaJSON(t, w, 0, "CAPCHA_NOT_READY")
				return
			}
			writeCaptchaJSON(t, w, 1, "solved-token")
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	token, err := testSolver(server.URL).Solve(context.Background(), "site-key-1", "https://example.com/apply")

	require.NoError(t, err)
	assert.Equal(t, "solved-token", token)
	assert.Equal(t, 3, polls, "solver must keep polling until the token is ready")
}

func TestTwoCaptchaSolver_SubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCaptchaJSON(t, w, 0, "ERROR_WRONG_USER_KEY")
	}))
	defer server.Close()

	_, err := testSolver(server.URL).Solve(context.Background(), "site-key-1", "https://example.com/apply")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR_WRONG_USER_KEY")
}

func TestTwoCaptchaSolver_ServiceErrorDuringPoll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/in.php" {
			writeCaptchaJSON(t, w, 1, "task-7")
			return
		}
		writeCaptchaJSON(t, w, 0, "ERROR_CAPTCHA_UNSOLVABLE")
	}))
	defer server.Close()

	_, err := testSolver(server.URL).Solve(context.Background(), "site-key-1", "https://example.com/apply")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR_CAPTCHA_UNSOLVABLE")
}

func TestTwoCaptchaSolver_SolveTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/in.php" {
			writeCaptchaJSON(t, w, 1, "task-9")
			return
		}
		writeCaptchaJSON(t, w, 0, "CAPCHA_NOT_READY")
	}))
	defer server.Close()

	solver := testSolver(server.URL)
	solver.solveTimeout = 25 * time.Millisecond

	_, err := solver.Solve(context.Background(), "site-key-1", "https://example.com/apply")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
