package models

import (
	"database/sql"
	"time"
)

// Application is one recorded auto-apply attempt outcome.
type Application struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	AttemptID     string    `json:"attempt_id"`
	JobURL        string    `json:"job_url"`
	Platform      string    `json:"platform"`
	Method        string    `json:"method"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	ScreenshotKey string    `json:"screenshot_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ApplicationModel struct {
	DB *sql.DB
}

func NewApplicationModel(db *sql.DB) *ApplicationModel {
	return &ApplicationModel{DB: db}
}

func (m *ApplicationModel) Create(app *Application) error {
	query := `
		INSERT INTO applications (user_id, attempt_id, job_url, platform, method, success, error, screenshot_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	return m.DB.QueryRow(query,
		app.UserID, app.AttemptID, app.JobURL, app.Platform, app.Method,
		app.Success, app.Error, app.ScreenshotKey, time.Now(),
	).Scan(&app.ID, &app.CreatedAt)
}

func (m *ApplicationModel) ListByUser(userID, limit int) ([]Application, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, attempt_id, job_url, platform, method, success, COALESCE(error, ''), COALESCE(screenshot_key, ''), created_at
		FROM applications WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := m.DB.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(
			&app.ID, &app.UserID, &app.AttemptID, &app.JobURL, &app.Platform,
			&app.Method, &app.Success, &app.Error, &app.ScreenshotKey, &app.CreatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
