package expense

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	observability.InitMetrics()
}

// MockExpenseService is a mock implementation of ExpenseServiceInterface
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) Create(expense *Expense) error {
	args := m.Called(expense)
	return args.Error(0)
}

func (m *MockExpenseService) List(userID int, filter Filter) ([]*Expense, error) {
	args := m.Called(userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Expense), args.Error(1)
}

func (m *MockExpenseService) Update(expense *Expense) error {
	args := m.Called(expense)
	return args.Error(0)
}

func (m *MockExpenseService) Delete(id, userID int) error {
	args := m.Called(id, userID)
	return args.Error(0)
}

func (m *MockExpenseService) TotalByUser(userID int) (float64, error) {
	args := m.Called(userID)
	return args.Get(0).(float64), args.Error(1)
}

// setupExpenseRouter creates a test router with a stubbed authenticated user
func setupExpenseRouter(service ExpenseServiceInterface, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewExpenseController(service)

	router.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Next()
	})

	router.GET("/expenses", controller.List)
	router.POST("/expenses", controller.Create)
	router.PUT("/expenses/:id", controller.Update)
	router.DELETE("/expenses/:id", controller.Delete)

	return router
}

func TestCreateExpense_Success(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 1)

	mockService.On("Create", mock.MatchedBy(func(e *Expense) bool {
		return e.UserID == 1 && e.Amount == 100 && e.Category == "Food"
	})).Return(nil)

	body := `{"date":"2024-01-05","amount":100,"category":"Food","notes":"groceries"}`
	req := httptest.NewRequest("POST", "/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var created Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.UserID)
	assert.Equal(t, "Food", created.Category)
	assert.Equal(t, 100.0, created.Amount)

	mockService.AssertExpectations(t)
}

func TestCreateExpense_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "Missing amount",
			body: `{"date":"2024-01-05","category":"Food"}`,
		},
		{
			name: "Negative amount",
			body: `{"date":"2024-01-05","amount":-5,"category":"Food"}`,
		},
		{
			name: "Zero amount",
			body: `{"date":"2024-01-05","amount":0,"category":"Food"}`,
		},
		{
			name: "Unknown category",
			body: `{"date":"2024-01-05","amount":10,"category":"Gambling"}`,
		},
		{
			name: "Missing date",
			body: `{"amount":10,"category":"Food"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockExpenseService)
			router := setupExpenseRouter(mockService, 1)

			req := httptest.NewRequest("POST", "/expenses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateExpense_InvalidDate(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 1)

	body := `{"date":"soon","amount":10,"category":"Food"}`
	req := httptest.NewRequest("POST", "/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestListExpenses_ParsesFilters(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 7)

	start, _ := time.Parse("2006-01-02", "2024-01-01")
	expected := []*Expense{
		{ID: 1, UserID: 7, Amount: 100, Category: "Food", Date: start.AddDate(0, 0, 4)},
	}

	mockService.On("List", 7, mock.MatchedBy(func(f Filter) bool {
		return f.Category == "Food" &&
			f.StartDate.Equal(start) &&
			f.EndDate.Day() == 31 && f.EndDate.Hour() == 23
	})).Return(expected, nil)

	req := httptest.NewRequest("GET", "/expenses?category=Food&startDate=2024-01-01&endDate=2024-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listed []*Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 100.0, listed[0].Amount)

	mockService.AssertExpectations(t)
}

func TestListExpenses_IgnoresUnknownCategory(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 7)

	mockService.On("List", 7, Filter{}).Return([]*Expense{}, nil)

	req := httptest.NewRequest("GET", "/expenses?category=Gambling", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestListExpenses_InvalidDate(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 7)

	req := httptest.NewRequest("GET", "/expenses?startDate=yesterday", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestUpdateExpense_NotOwned(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 2) // user B

	// The service never reveals whether the record exists for another user.
	mockService.On("Update", mock.MatchedBy(func(e *Expense) bool {
		return e.ID == 123 && e.UserID == 2
	})).Return(ErrNotFound)

	body := `{"date":"2024-01-05","amount":50,"category":"Food"}`
	req := httptest.NewRequest("PUT", "/expenses/123", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateExpense_Success(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 1)

	mockService.On("Update", mock.MatchedBy(func(e *Expense) bool {
		return e.ID == 5 && e.UserID == 1 && e.Amount == 75 && e.Category == "Medical"
	})).Return(nil)

	body := `{"date":"2024-02-01","amount":75,"category":"Medical","notes":"pharmacy"}`
	req := httptest.NewRequest("PUT", "/expenses/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteExpense(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "Owned record",
			serviceErr: nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing or not owned",
			serviceErr: ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockExpenseService)
			router := setupExpenseRouter(mockService, 3)

			mockService.On("Delete", 9, 3).Return(tt.serviceErr)

			req := httptest.NewRequest("DELETE", fmt.Sprintf("/expenses/%d", 9), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDeleteExpense_InvalidID(t *testing.T) {
	mockService := new(MockExpenseService)
	router := setupExpenseRouter(mockService, 3)

	req := httptest.NewRequest("DELETE", "/expenses/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Delete")
}
