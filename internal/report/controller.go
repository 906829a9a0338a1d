package report

import (
	"errors"
	"net/http"
	"strconv"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	service ReportServiceInterface
}

func NewReportController(service ReportServiceInterface) *ReportController {
	return &ReportController{
		service: service,
	}
}

// Create handles POST /api/v1/reports: queue a PDF export of the user's
// expenses or savings, optionally restricted to a date range.
func (rc *ReportController) Create(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		ReportType string `json:"type" binding:"required,oneof=expenses savings"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report type must be expenses or savings"})
		return
	}

	rep := &Report{
		UserID:     userID,
		ReportType: req.ReportType,
	}

	if req.StartDate != "" {
		t, err := utils.ParseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
			return
		}
		rep.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := utils.ParseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
			return
		}
		end := utils.EndOfDay(t)
		rep.EndDate = &end
	}

	if err := rc.service.Create(rep); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	observability.GlobalMetrics.ReportsRequestedTotal.WithLabelValues(rep.ReportType).Inc()
	c.JSON(http.StatusCreated, rep)
}

// Get handles GET /api/v1/reports/:id, scoped to the authenticated owner.
func (rc *ReportController) Get(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	rep, err := rc.service.Get(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	c.JSON(http.StatusOK, rep)
}

// List handles GET /api/v1/reports.
func (rc *ReportController) List(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	reports, err := rc.service.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// Download handles GET /api/v1/reports/:id/download, streaming the finished PDF.
func (rc *ReportController) Download(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	rep, err := rc.service.Get(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}

	if rep.Status != StatusSuccess || rep.ResultFile == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Report is not ready", "status": rep.Status})
		return
	}

	c.FileAttachment(*rep.ResultFile, "report.pdf")
}
