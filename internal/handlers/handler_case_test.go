package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
	"github.com/caselab/lab_case_app/internal/dto"
	"github.com/caselab/lab_case_app/internal/handlers"
	"github.com/caselab/lab_case_app/internal/middleware"
	"github.com/caselab/lab_case_app/internal/utils/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CaseService ---
type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, actor domain.Actor) (*domain.CaseRecord, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaseRecord), args.Error(1)
}

func (m *MockCaseService) GetCase(ctx context.Context, caseID string) (*domain.CaseRecord, reconciliation.Result, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, reconciliation.Result{}, args.Error(2)
	}
	return args.Get(0).(*domain.CaseRecord), args.Get(1).(reconciliation.Result), args.Error(2)
}

func (m *MockCaseService) ListCases(ctx context.Context, limit int, nextToken *string) ([]domain.CaseRecord, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.CaseRecord), token, args.Error(2)
}

func (m *MockCaseService) UpdateCase(ctx context.Context, caseID string, req dto.UpdateCaseRequest, actor domain.Actor) (*domain.CaseRecord, []domain.Change, reconciliation.Result, error) {
	args := m.Called(ctx, caseID, req, actor)
	if args.Get(0) == nil {
		return nil, nil, reconciliation.Result{}, args.Error(3)
	}
	var changes []domain.Change
	if args.Get(1) != nil {
		changes = args.Get(1).([]domain.Change)
	}
	return args.Get(0).(*domain.CaseRecord), changes, args.Get(2).(reconciliation.Result), args.Error(3)
}

func (m *MockCaseService) DeleteCase(ctx context.Context, caseID string, actor domain.Actor) error {
	args := m.Called(ctx, caseID, actor)
	return args.Error(0)
}

func (m *MockCaseService) PreviewReconciliation(req dto.ReconcilePreviewRequest) reconciliation.Result {
	args := m.Called(req)
	return args.Get(0).(reconciliation.Result)
}

func (m *MockCaseService) ReconcileRecord(record *domain.CaseRecord) reconciliation.Result {
	args := m.Called(record)
	return args.Get(0).(reconciliation.Result)
}

var _ portssvc.CaseSvcFacade = (*MockCaseService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordChanges(ctx context.Context, caseID string, actor domain.Actor, changes []domain.Change) error {
	args := m.Called(ctx, caseID, actor, changes)
	return args.Error(0)
}

func (m *MockAuditService) RecordLifecycleEvent(ctx context.Context, caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string) error {
	args := m.Called(ctx, caseID, actor, kind, summary)
	return args.Error(0)
}

func (m *MockAuditService) ListHistory(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	args := m.Called(ctx, caseID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.AuditLogEntry), token, args.Error(2)
}

func (m *MockAuditService) EntriesForChanges(caseID string, actor domain.Actor, changes []domain.Change, at time.Time) []domain.AuditLogEntry {
	args := m.Called(caseID, actor, changes, at)
	return args.Get(0).([]domain.AuditLogEntry)
}

func (m *MockAuditService) LifecycleEntry(caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string, at time.Time) domain.AuditLogEntry {
	args := m.Called(caseID, actor, kind, summary, at)
	return args.Get(0).(domain.AuditLogEntry)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

// --- Test Suite ---
type CaseHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCaseService  *MockCaseService
	mockAuditService *MockAuditService
	jwtSecret        string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *CaseHandlerTestSuite) generateTestToken(userID, name string) string {
	claims := jwt.MapClaims{
		"iss":  "lab-case-test",
		"sub":  userID,
		"name": name,
		"exp":  jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		"iat":  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *CaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockCaseService = new(MockCaseService)
	suite.mockAuditService = new(MockAuditService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterCaseRoutes(v1, suite.mockCaseService, suite.mockAuditService)
}

func (suite *CaseHandlerTestSuite) performRequest(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleCase() *domain.CaseRecord {
	amount := decimal.NewFromInt(100)
	return &domain.CaseRecord{
		CaseID:       uuid.NewString(),
		PatientName:  "Ana Pérez",
		TestType:     "Perfil 20",
		TotalAmount:  decimal.NewFromInt(100),
		ExchangeRate: decimal.NewFromInt(36),
		Payments: [domain.MaxPaymentSlots]domain.PaymentEntry{
			{Method: domain.Zelle, Amount: &amount},
		},
		AuditFields: domain.AuditFields{Version: 1},
	}
}

// --- Test Cases ---

func (suite *CaseHandlerTestSuite) TestCreateCase_Success() {
	actorID := uuid.NewString()
	token := suite.generateTestToken(actorID, "Dra. Gómez")
	record := sampleCase()

	suite.mockCaseService.On("CreateCase", mock.Anything,
		mock.AnythingOfType("dto.CreateCaseRequest"),
		mock.MatchedBy(func(a domain.Actor) bool {
			return a.ID == actorID && a.Label == "Dra. Gómez"
		}),
	).Return(record, nil).Once()
	suite.mockCaseService.On("ReconcileRecord", record).
		Return(reconciliation.Result{Status: domain.StatusCompletado}).Once()

	body := dto.CreateCaseRequest{
		PatientName:       "Ana Pérez",
		PatientDocumentID: "V-12345678",
		TestType:          "Perfil 20",
		TotalAmount:       decimal.NewFromInt(100),
		ExchangeRate:      decimal.NewFromInt(36),
	}
	w := suite.performRequest(http.MethodPost, "/api/v1/cases", token, body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(record.CaseID, resp.CaseID)
	suite.Equal(domain.StatusCompletado, resp.Reconciliation.Status)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestCreateCase_NoToken() {
	w := suite.performRequest(http.MethodPost, "/api/v1/cases", "", dto.CreateCaseRequest{})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCaseService.AssertNotCalled(suite.T(), "CreateCase", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CaseHandlerTestSuite) TestGetCase_NotFound() {
	token := suite.generateTestToken(uuid.NewString(), "Dra. Gómez")
	caseID := uuid.NewString()

	suite.mockCaseService.On("GetCase", mock.Anything, caseID).
		Return(nil, reconciliation.Result{}, fmt.Errorf("lookup: %w", apperrors.ErrNotFound)).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/cases/"+caseID, token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestUpdateCase_Conflict() {
	token := suite.generateTestToken(uuid.NewString(), "Lic. Rivas")
	caseID := uuid.NewString()
	newName := "Otro Nombre"

	suite.mockCaseService.On("UpdateCase", mock.Anything, caseID,
		mock.AnythingOfType("dto.UpdateCaseRequest"), mock.AnythingOfType("domain.Actor")).
		Return(nil, nil, reconciliation.Result{}, fmt.Errorf("update: %w", apperrors.ErrConflict)).Once()

	body := dto.UpdateCaseRequest{Version: 2, PatientName: &newName}
	w := suite.performRequest(http.MethodPatch, "/api/v1/cases/"+caseID, token, body)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestUpdateCase_ReturnsChanges() {
	token := suite.generateTestToken(uuid.NewString(), "Lic. Rivas")
	record := sampleCase()
	newName := "Ana P. de García"
	changes := []domain.Change{{Field: "patient_name", FieldLabel: "Nombre del paciente", OldValue: "Ana Pérez", NewValue: newName}}

	suite.mockCaseService.On("UpdateCase", mock.Anything, record.CaseID,
		mock.MatchedBy(func(r dto.UpdateCaseRequest) bool { return r.Version == 1 && r.PatientName != nil }),
		mock.AnythingOfType("domain.Actor")).
		Return(record, changes, reconciliation.Result{Status: domain.StatusCompletado}, nil).Once()

	body := dto.UpdateCaseRequest{Version: 1, PatientName: &newName}
	w := suite.performRequest(http.MethodPatch, "/api/v1/cases/"+record.CaseID, token, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UpdateCaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Changes, 1)
	suite.Equal("patient_name", resp.Changes[0].Field)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestDeleteCase_NoContent() {
	actorID := uuid.NewString()
	token := suite.generateTestToken(actorID, "Admin")
	caseID := uuid.NewString()

	suite.mockCaseService.On("DeleteCase", mock.Anything, caseID,
		mock.MatchedBy(func(a domain.Actor) bool { return a.ID == actorID })).
		Return(nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/cases/"+caseID, token, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestPreviewReconciliation_Success() {
	token := suite.generateTestToken(uuid.NewString(), "Dra. Gómez")

	suite.mockCaseService.On("PreviewReconciliation", mock.AnythingOfType("dto.ReconcilePreviewRequest")).
		Return(reconciliation.Result{Status: domain.StatusPendiente, Remaining: decimal.NewFromInt(100)}).Once()

	body := dto.ReconcilePreviewRequest{TotalAmount: decimal.NewFromInt(100)}
	w := suite.performRequest(http.MethodPost, "/api/v1/cases/reconcile", token, body)

	suite.Equal(http.StatusOK, w.Code)
	var resp reconciliation.Result
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusPendiente, resp.Status)
	suite.mockCaseService.AssertExpectations(suite.T())
}

func (suite *CaseHandlerTestSuite) TestListHistory_Success() {
	token := suite.generateTestToken(uuid.NewString(), "Dra. Gómez")
	caseID := uuid.NewString()
	entries := []domain.AuditLogEntry{
		{EntryID: uuid.NewString(), CaseID: caseID, FieldName: domain.FieldCreatedRecord, NewValue: "Caso creado para Ana (Perfil 20)", ChangedAt: time.Now()},
		{EntryID: uuid.NewString(), CaseID: caseID, FieldName: "notes", OldValue: "", NewValue: "urgente", ChangedAt: time.Now()},
	}

	suite.mockAuditService.On("ListHistory", mock.Anything, caseID, 0, (*string)(nil)).
		Return(entries, nil, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/cases/"+caseID+"/audit", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAuditLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 2)
	suite.True(resp.Entries[0].Lifecycle)
	suite.False(resp.Entries[1].Lifecycle)
	suite.mockAuditService.AssertExpectations(suite.T())
}

func TestCaseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CaseHandlerTestSuite))
}
