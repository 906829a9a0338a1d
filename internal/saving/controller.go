package saving

import (
	"errors"
	"net/http"
	"strconv"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

type SavingController struct {
	service SavingServiceInterface
}

func NewSavingController(service SavingServiceInterface) *SavingController {
	return &SavingController{
		service: service,
	}
}

type savingRequest struct {
	Date   string  `json:"date" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}

// List handles GET /api/v1/savings with optional date filters.
func (sc *SavingController) List(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var filter Filter

	if startDate := c.Query("startDate"); startDate != "" {
		t, err := utils.ParseDate(startDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
			return
		}
		filter.StartDate = t
	}

	if endDate := c.Query("endDate"); endDate != "" {
		t, err := utils.ParseDate(endDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
			return
		}
		filter.EndDate = utils.EndOfDay(t)
	}

	savings, err := sc.service.List(userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch savings"})
		return
	}

	c.JSON(http.StatusOK, savings)
}

// Create handles POST /api/v1/savings.
func (sc *SavingController) Create(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	req, ok := bindSavingRequest(c)
	if !ok {
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	saving := &Saving{
		UserID: userID,
		Date:   date,
		Amount: req.Amount,
		Reason: req.Reason,
	}

	if err := sc.service.Create(saving); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create saving"})
		return
	}

	observability.GlobalMetrics.RecordsCreatedTotal.WithLabelValues("saving").Inc()
	c.JSON(http.StatusCreated, saving)
}

// Update handles PUT /api/v1/savings/:id, scoped to the authenticated owner.
func (sc *SavingController) Update(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid saving ID"})
		return
	}

	req, ok := bindSavingRequest(c)
	if !ok {
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	saving := &Saving{
		ID:     id,
		UserID: userID,
		Date:   date,
		Amount: req.Amount,
		Reason: req.Reason,
	}

	if err := sc.service.Update(saving); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saving not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update saving"})
		return
	}

	c.JSON(http.StatusOK, saving)
}

// Delete handles DELETE /api/v1/savings/:id, scoped to the authenticated owner.
func (sc *SavingController) Delete(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid saving ID"})
		return
	}

	if err := sc.service.Delete(id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Saving not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete saving"})
		return
	}

	observability.GlobalMetrics.RecordsDeletedTotal.WithLabelValues("saving").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Saving deleted"})
}

func bindSavingRequest(c *gin.Context) (*savingRequest, bool) {
	var req savingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and a positive amount are required"})
		return nil, false
	}
	return &req, true
}
