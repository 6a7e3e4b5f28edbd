package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenshotService captures diagnostic evidence for an apply attempt.
// Screenshots go to S3 when configured, otherwise to a local directory.
// Capture is best-effort everywhere: a failed screenshot never changes an
// application outcome.
type ScreenshotService struct {
	s3Service *S3Service
	localDir  string
}

func NewScreenshotService(localDir string) *ScreenshotService {
	if localDir == "" {
		localDir = "./static"
	}
	s3Service, err := NewS3Service()
	if err != nil {
		log.Printf("Warning: S3 not available for screenshots, using %s: %v", localDir, err)
		s3Service = nil
	}
	return &ScreenshotService{
		s3Service: s3Service,
		localDir:  localDir,
	}
}

// Capture takes a full-page screenshot and stores it, returning the S3 key
// or local path of the artifact.
func (s *ScreenshotService) Capture(page playwright.Page, label string) (string, error) {
	content, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}

	filename := fmt.Sprintf("%s_%d.png", label, time.Now().Unix())

	if s.s3Service != nil {
		key := fmt.Sprintf("screenshots/%s", filename)
		if _, err := s.s3Service.UploadBytes(content, key, "image/png"); err == nil {
			log.Printf("Screenshot uploaded to S3 with key: %s", key)
			return key, nil
		} else {
			log.Printf("Failed to upload screenshot to S3, falling back to local: %v", err)
		}
	}

	if err := os.MkdirAll(s.localDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	localPath := filepath.Join(s.localDir, filename)
	if err := os.WriteFile(localPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save screenshot locally: %w", err)
	}
	log.Printf("Screenshot saved locally: %s", localPath)
	return localPath, nil
}
