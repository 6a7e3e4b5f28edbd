package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TwoCaptchaSolver submits reCAPTCHA tasks to the 2Captcha HTTP API and polls
// for the solution token.
type TwoCaptchaSolver struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	solveTimeout time.Duration
}

func NewTwoCaptchaSolver(apiKey string) *TwoCaptchaSolver {
	return &TwoCaptchaSolver{
		apiKey:       apiKey,
		baseURL:      "https://2captcha.com",
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: 5 * time.Second,
		solveTimeout: 120 * time.Second,
	}
}

type twoCaptchaResponse struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}

// Solve submits the challenge and polls until a token is ready, the service
// reports an error, or the solve deadline passes.
func (s *TwoCaptchaSolver) Solve(ctx context.Context, siteKey, pageURL string) (string, error) {
	taskID, err := s.submit(ctx, siteKey, pageURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.solveTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("captcha solve timed out: %w", ctx.Err())
		case <-ticker.C:
			token, ready, err := s.poll(ctx, taskID)
			if err != nil {
				return "", err
			}
			if ready {
				return token, nil
			}
		}
	}
}

func (s *TwoCaptchaSolver) submit(ctx context.Context, siteKey, pageURL string) (string, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("method", "userrecaptcha")
	params.Set("googlekey", siteKey)
	params.Set("pageurl", pageURL)
	params.Set("json", "1")

	resp, err := s.get(ctx, "/in.php", params)
	if err != nil {
		return "", fmt.Errorf("captcha submit failed: %w", err)
	}
	if resp.Status != 1 {
		return "", fmt.Errorf("captcha service rejected task: %s", resp.Request)
	}
	return resp.Request, nil
}

func (s *TwoCaptchaSolver) poll(ctx context.Context, taskID string) (string, bool, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("action", "get")
	params.Set("id", taskID)
	params.Set("json", "1")

	resp, err := s.get(ctx, "/res.php", params)
	if err != nil {
		return "", false, fmt.Errorf("captcha poll failed: %w", err)
	}
	if resp.Status == 1 {
		return resp.Request, true, nil
	}
	if resp.Request == "CAPCHA_NOT_READY" {
		return "", false, nil
	}
	return "", false, fmt.Errorf("captcha service error: %s", resp.Request)
}

func (s *TwoCaptchaSolver) get(ctx context.Context, path string, params url.Values) (*twoCaptchaResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var resp twoCaptchaResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}
