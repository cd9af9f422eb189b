package record

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordService is a mock implementation of RecordServiceInterface
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Create(kind Kind, userID string, in CreateInput) (*Record, error) {
	args := m.Called(kind, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRecordService) List(kind Kind, userID string) ([]*Record, error) {
	args := m.Called(kind, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Record), args.Error(1)
}

func (m *MockRecordService) Update(kind Kind, userID, id string, patch Patch) (*Record, error) {
	args := m.Called(kind, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRecordService) Delete(kind Kind, userID, id string) error {
	args := m.Called(kind, userID, id)
	return args.Error(0)
}

// setupRecordRouter mounts both variants the way the real route table
// does, injecting the given identity the way the auth gate would.
func setupRecordRouter(service RecordServiceInterface, authedUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	expenseCtrl := NewRecordController(service, ExpenseKind)
	incomeCtrl := NewRecordController(service, IncomeKind)

	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		if authedUserID != "" {
			c.Set(auth.UserIDKey, authedUserID)
		}
		c.Next()
	})
	{
		api.GET("/expenses", expenseCtrl.List)
		api.POST("/expenses", expenseCtrl.Create)
		api.PUT("/expenses/:id", expenseCtrl.Update)
		api.DELETE("/expenses/:id", expenseCtrl.Delete)

		api.GET("/income", incomeCtrl.List)
		api.POST("/income", incomeCtrl.Create)
		api.PUT("/income/:id", incomeCtrl.Update)
		api.DELETE("/income/:id", incomeCtrl.Delete)
	}

	return router
}

func doRecordJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateExpense_Success(t *testing.T) {
	now := time.Now()
	created := &Record{
		ID:        "rec-1",
		UserID:    "user-a",
		Amount:    12.5,
		Category:  "food",
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mockService := new(MockRecordService)
	mockService.On("Create", ExpenseKind, "user-a", mock.MatchedBy(func(in CreateInput) bool {
		return in.Label == "food" && in.Amount != nil && *in.Amount == 12.5
	})).Return(created, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "POST", "/api/expenses", map[string]interface{}{
		"category": "food",
		"amount":   12.5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Expense added successfully", resp["message"])

	expense := resp["expense"].(map[string]interface{})
	assert.Equal(t, "rec-1", expense["id"])
	assert.Equal(t, "food", expense["category"])
	assert.Equal(t, 12.5, expense["amount"])
	assert.Equal(t, "", expense["emoji"]) // defaults to empty string
	assert.NotContains(t, expense, "source")
	mockService.AssertExpectations(t)
}

func TestCreateExpense_MissingRequiredFields(t *testing.T) {
	mockService := new(MockRecordService)
	mockService.On("Create", ExpenseKind, "user-a", mock.Anything).
		Return(nil, apperr.Invalid("Category and amount are required."))

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "POST", "/api/expenses", map[string]interface{}{
		"note": "lunch",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Category and amount are required.")
}

func TestCreateIncome_UsesSource(t *testing.T) {
	now := time.Now()
	created := &Record{
		ID:     "rec-2",
		UserID: "user-a",
		Amount: 3000,
		Source: "salary",
		Date:   now,
	}

	mockService := new(MockRecordService)
	mockService.On("Create", IncomeKind, "user-a", mock.MatchedBy(func(in CreateInput) bool {
		return in.Label == "salary" && in.Amount != nil && *in.Amount == 3000
	})).Return(created, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "POST", "/api/income", map[string]interface{}{
		"source": "salary",
		"amount": 3000,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Income added successfully", resp["message"])

	income := resp["income"].(map[string]interface{})
	assert.Equal(t, "salary", income["source"])
	assert.NotContains(t, income, "category")
	assert.NotContains(t, income, "emoji")
}

func TestCreate_Unauthenticated(t *testing.T) {
	mockService := new(MockRecordService)
	router := setupRecordRouter(mockService, "")

	w := doRecordJSON(t, router, "POST", "/api/expenses", map[string]interface{}{
		"category": "food",
		"amount":   12.5,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestListExpenses_Empty(t *testing.T) {
	mockService := new(MockRecordService)
	mockService.On("List", ExpenseKind, "user-a").Return([]*Record{}, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "GET", "/api/expenses", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	// Empty listing is an empty array, not null and not an error
	assert.JSONEq(t, `{"expenses": []}`, w.Body.String())
}

func TestListExpenses_NewestFirst(t *testing.T) {
	older := time.Now().Add(-24 * time.Hour)
	newer := time.Now()

	mockService := new(MockRecordService)
	mockService.On("List", ExpenseKind, "user-a").Return([]*Record{
		{ID: "rec-new", UserID: "user-a", Category: "food", Amount: 5, Date: newer},
		{ID: "rec-old", UserID: "user-a", Category: "rent", Amount: 900, Date: older},
	}, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "GET", "/api/expenses", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Expenses []map[string]interface{} `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Expenses, 2)
	assert.Equal(t, "rec-new", resp.Expenses[0]["id"])
	assert.Equal(t, "rec-old", resp.Expenses[1]["id"])
}

func TestUpdateExpense_PartialPatch(t *testing.T) {
	now := time.Now()
	updated := &Record{
		ID:       "rec-1",
		UserID:   "user-a",
		Amount:   12.5,
		Note:     "team lunch",
		Category: "food",
		Date:     now,
	}

	mockService := new(MockRecordService)
	mockService.On("Update", ExpenseKind, "user-a", "rec-1", mock.MatchedBy(func(p Patch) bool {
		// Only note travels; everything else stays unchanged
		return p.Note != nil && *p.Note == "team lunch" &&
			p.Label == nil && p.Amount == nil && p.Date == nil && p.Emoji == nil
	})).Return(updated, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "PUT", "/api/expenses/rec-1", map[string]interface{}{
		"note": "team lunch",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Expense updated")
	mockService.AssertExpectations(t)
}

func TestUpdateExpense_AmountZeroIsApplied(t *testing.T) {
	updated := &Record{ID: "rec-1", UserID: "user-a", Category: "food"}

	mockService := new(MockRecordService)
	mockService.On("Update", ExpenseKind, "user-a", "rec-1", mock.MatchedBy(func(p Patch) bool {
		return p.Amount != nil && *p.Amount == 0
	})).Return(updated, nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "PUT", "/api/expenses/rec-1", map[string]interface{}{
		"amount": 0,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateExpense_NotOwned(t *testing.T) {
	mockService := new(MockRecordService)
	mockService.On("Update", ExpenseKind, "user-b", "rec-1", mock.Anything).
		Return(nil, apperr.NotFound("Expense not found."))

	router := setupRecordRouter(mockService, "user-b")

	w := doRecordJSON(t, router, "PUT", "/api/expenses/rec-1", map[string]interface{}{
		"note": "mine now",
	})

	// A foreign record is indistinguishable from a missing one
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Expense not found.")
}

func TestDeleteExpense_Success(t *testing.T) {
	mockService := new(MockRecordService)
	mockService.On("Delete", ExpenseKind, "user-a", "rec-1").Return(nil)

	router := setupRecordRouter(mockService, "user-a")

	w := doRecordJSON(t, router, "DELETE", "/api/expenses/rec-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Expense deleted successfully")
}

func TestDeleteIncome_NotOwned(t *testing.T) {
	mockService := new(MockRecordService)
	mockService.On("Delete", IncomeKind, "user-b", "rec-2").
		Return(apperr.NotFound("Income not found."))

	router := setupRecordRouter(mockService, "user-b")

	w := doRecordJSON(t, router, "DELETE", "/api/income/rec-2", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Income not found.")
}
