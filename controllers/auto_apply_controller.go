package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"autoapply/models"
	"autoapply/services"
	"autoapply/utils"
)

// applyEngine is the auto-apply entry point the API layer needs. Satisfied
// by *services.PlatformRouter.
type applyEngine interface {
	Apply(ctx context.Context, req *services.ApplyRequest) *services.ApplicationOutcome
	ApplyBatch(ctx context.Context, reqs []*services.ApplyRequest) []*services.ApplicationOutcome
}

type AutoApplyController struct {
	engine       applyEngine
	applications *models.ApplicationModel
	logger       *utils.Logger
}

// NewAutoApplyController builds the controller. The application model may be
// nil; outcomes are then returned to the caller without being recorded.
func NewAutoApplyController(engine applyEngine, applications *models.ApplicationModel) *AutoApplyController {
	return &AutoApplyController{
		engine:       engine,
		applications: applications,
		logger:       utils.NewLogger(),
	}
}

type batchApplyRequest struct {
	Requests []*services.ApplyRequest `json:"requests" binding:"required"`
}

// Apply handles POST /api/auto-apply.
func (c *AutoApplyController) Apply(ctx *gin.Context) {
	var req services.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request data", err)
		return
	}
	if !isAbsoluteURL(req.JobURL) {
		utils.BadRequestError(ctx, "job_url must be a well-formed absolute URL", nil)
		return
	}

	c.logger.Info("Auto-apply request received", gin.H{"job_url": req.JobURL})
	outcome := c.engine.Apply(ctx.Request.Context(), &req)
	c.record(ctx, outcome)

	utils.SuccessResponse(ctx, http.StatusOK, "Application attempt completed", outcome)
}

// ApplyBatch handles POST /api/auto-apply/batch.
func (c *AutoApplyController) ApplyBatch(ctx *gin.Context) {
	var req batchApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request data", err)
		return
	}
	if len(req.Requests) == 0 {
		utils.BadRequestError(ctx, "requests must not be empty", nil)
		return
	}
	for _, r := range req.Requests {
		if !isAbsoluteURL(r.JobURL) {
			utils.BadRequestError(ctx, "every job_url must be a well-formed absolute URL", nil)
			return
		}
	}

	c.logger.Info("Auto-apply batch received", gin.H{"count": len(req.Requests)})
	outcomes := c.engine.ApplyBatch(ctx.Request.Context(), req.Requests)
	for _, outcome := range outcomes {
		c.record(ctx, outcome)
	}

	utils.SuccessResponse(ctx, http.StatusOK, "Batch completed", outcomes)
}

// History handles GET /api/auto-apply/history.
func (c *AutoApplyController) History(ctx *gin.Context) {
	if c.applications == nil {
		utils.SuccessResponse(ctx, http.StatusOK, "History unavailable without database", []models.Application{})
		return
	}

	userID := ctx.GetInt("user_id")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	apps, err := c.applications.ListByUser(userID, limit)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to load application history", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Application history", apps)
}

// record persists an outcome best-effort; a storage failure never changes
// the API response.
func (c *AutoApplyController) record(ctx *gin.Context, outcome *services.ApplicationOutcome) {
	if c.applications == nil || outcome == nil {
		return
	}
	app := &models.Application{
		UserID:        ctx.GetInt("user_id"),
		AttemptID:     outcome.AttemptID,
		JobURL:        outcome.JobURL,
		Platform:      string(outcome.Platform),
		Method:        string(outcome.Method),
		Success:       outcome.Success,
		Error:         outcome.Error,
		ScreenshotKey: outcome.Screenshot,
	}
	if err := c.applications.Create(app); err != nil {
		c.logger.Error("Failed to record application outcome", err, gin.H{"attempt_id": outcome.AttemptID})
	}
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
