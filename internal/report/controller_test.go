package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Create(report *Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportService) Get(id, userID int) (*Report, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockReportService) List(userID int) ([]*Report, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Report), args.Error(1)
}

func setupReportRouter(service ReportServiceInterface, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewReportController(service)

	router.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Next()
	})

	router.POST("/reports", controller.Create)
	router.GET("/reports/:id", controller.Get)
	router.GET("/reports/:id/download", controller.Download)

	return router
}

func TestCreateReport_Success(t *testing.T) {
	mockService := new(MockReportService)
	router := setupReportRouter(mockService, 1)

	mockService.On("Create", mock.MatchedBy(func(r *Report) bool {
		return r.UserID == 1 && r.ReportType == TypeExpenses &&
			r.StartDate != nil && r.EndDate != nil && r.EndDate.Hour() == 23
	})).Return(nil)

	body := `{"type":"expenses","startDate":"2024-01-01","endDate":"2024-01-31"}`
	req := httptest.NewRequest("POST", "/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateReport_InvalidType(t *testing.T) {
	mockService := new(MockReportService)
	router := setupReportRouter(mockService, 1)

	body := `{"type":"taxes"}`
	req := httptest.NewRequest("POST", "/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestGetReport_NotOwned(t *testing.T) {
	mockService := new(MockReportService)
	router := setupReportRouter(mockService, 2)

	mockService.On("Get", 10, 2).Return(nil, ErrNotFound)

	req := httptest.NewRequest("GET", "/reports/10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestDownloadReport_NotReady(t *testing.T) {
	mockService := new(MockReportService)
	router := setupReportRouter(mockService, 1)

	mockService.On("Get", 10, 1).Return(&Report{ID: 10, UserID: 1, Status: StatusPending}, nil)

	req := httptest.NewRequest("GET", "/reports/10/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusPending, resp["status"])

	mockService.AssertExpectations(t)
}
