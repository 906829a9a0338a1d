package expense

import (
	"errors"
	"net/http"
	"strconv"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

type ExpenseController struct {
	service ExpenseServiceInterface
}

func NewExpenseController(service ExpenseServiceInterface) *ExpenseController {
	return &ExpenseController{
		service: service,
	}
}

type expenseRequest struct {
	Date     string  `json:"date" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required,oneof=Food Medical Transportation Utilities Entertainment Shopping Other"`
	Notes    string  `json:"notes"`
}

// List handles GET /api/v1/expenses with optional category and date filters.
func (ec *ExpenseController) List(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var filter Filter

	// An unknown category is ignored rather than rejected, matching the
	// lenient filter semantics of listings.
	if category := c.Query("category"); ValidCategory(category) {
		filter.Category = category
	}

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

	expenses, err := ec.service.List(userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// Create handles POST /api/v1/expenses.
func (ec *ExpenseController) Create(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	req, ok := bindExpenseRequest(c)
	if !ok {
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	expense := &Expense{
		UserID:   userID,
		Date:     date,
		Amount:   req.Amount,
		Category: req.Category,
		Notes:    req.Notes,
	}

	if err := ec.service.Create(expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	observability.GlobalMetrics.RecordsCreatedTotal.WithLabelValues("expense").Inc()
	c.JSON(http.StatusCreated, expense)
}

// Update handles PUT /api/v1/expenses/:id, scoped to the authenticated owner.
func (ec *ExpenseController) Update(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	req, ok := bindExpenseRequest(c)
	if !ok {
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	expense := &Expense{
		ID:       id,
		UserID:   userID,
		Date:     date,
		Amount:   req.Amount,
		Category: req.Category,
		Notes:    req.Notes,
	}

	if err := ec.service.Update(expense); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /api/v1/expenses/:id, scoped to the authenticated owner.
func (ec *ExpenseController) Delete(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	if err := ec.service.Delete(id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}

	observability.GlobalMetrics.RecordsDeletedTotal.WithLabelValues("expense").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

func bindExpenseRequest(c *gin.Context) (*expenseRequest, bool) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date, a positive amount, and a valid category are required"})
		return nil, false
	}
	return &req, true
}
