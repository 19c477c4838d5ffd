package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AuditLogRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) AppendEntries(ctx context.Context, entries []domain.AuditLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockAuditRepository) ListEntriesByCase(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
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

// --- Test Suite ---
type AuditServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAuditRepository
	service  *services.AuditService
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAuditRepository)
	suite.service = services.NewAuditService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AuditServiceTestSuite) TestRecordChanges_EmptySetWritesNothing() {
	ctx := context.Background()
	actor := domain.Actor{ID: uuid.NewString()}

	err := suite.service.RecordChanges(ctx, uuid.NewString(), actor, nil)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendEntries", mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestRecordChanges_OneEntryPerChange() {
	ctx := context.Background()
	caseID := uuid.NewString()
	actor := domain.Actor{ID: uuid.NewString(), Label: "Lic. Rivas"}
	changes := []domain.Change{
		{Field: "patient_name", FieldLabel: "Nombre del paciente", OldValue: "Ana", NewValue: "Ana María"},
		{Field: "total_amount", FieldLabel: "Monto total", OldValue: decimal.NewFromInt(100), NewValue: decimal.NewFromInt(120)},
	}

	suite.mockRepo.On("AppendEntries", ctx, mock.MatchedBy(func(entries []domain.AuditLogEntry) bool {
		if len(entries) != 2 {
			return false
		}
		return entries[0].FieldName == "patient_name" &&
			entries[0].OldValue == "Ana" &&
			entries[0].NewValue == "Ana María" &&
			entries[1].OldValue == "100.00" &&
			entries[1].NewValue == "120.00" &&
			entries[1].ActorLabel == actor.Label
	})).Return(nil).Once()

	err := suite.service.RecordChanges(ctx, caseID, actor, changes)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestLifecycleEntry_Sentinels() {
	actor := domain.Actor{ID: uuid.NewString(), Label: "Admin"}
	at := time.Now()

	created := suite.service.LifecycleEntry("case-1", actor, domain.LifecycleCreated, "Caso creado para Ana (Perfil 20)", at)
	deleted := suite.service.LifecycleEntry("case-1", actor, domain.LifecycleDeleted, "Caso eliminado (Ana, Perfil 20)", at)

	suite.Equal(domain.FieldCreatedRecord, created.FieldName)
	suite.True(created.IsLifecycle())
	suite.Equal("Caso creado para Ana (Perfil 20)", created.NewValue)
	suite.Empty(created.OldValue)

	suite.Equal(domain.FieldDeletedRecord, deleted.FieldName)
	suite.True(deleted.IsLifecycle())
	suite.NotEqual(created.EntryID, deleted.EntryID)
}

func (suite *AuditServiceTestSuite) TestEntriesForChanges_FormatsValues() {
	actor := domain.Actor{ID: uuid.NewString()}
	when := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	amount := decimal.NewFromFloat(36.5)
	changes := []domain.Change{
		{Field: "exchange_rate", FieldLabel: "Tasa de cambio", OldValue: nil, NewValue: amount},
		{Field: "notes", FieldLabel: "Notas", OldValue: "urgente", NewValue: nil},
	}

	entries := suite.service.EntriesForChanges("case-2", actor, changes, when)

	suite.Require().Len(entries, 2)
	suite.Equal("", entries[0].OldValue)
	suite.Equal("36.50", entries[0].NewValue)
	suite.Equal("urgente", entries[1].OldValue)
	suite.Equal("", entries[1].NewValue)
	suite.Equal(when, entries[0].ChangedAt)
	suite.False(entries[0].IsLifecycle())
}

func (suite *AuditServiceTestSuite) TestListHistory_ClampsPageSize() {
	ctx := context.Background()
	caseID := uuid.NewString()

	suite.mockRepo.On("ListEntriesByCase", ctx, caseID, 50, (*string)(nil)).
		Return([]domain.AuditLogEntry{}, nil, nil).Once()
	suite.mockRepo.On("ListEntriesByCase", ctx, caseID, 200, (*string)(nil)).
		Return([]domain.AuditLogEntry{}, nil, nil).Once()

	_, _, err := suite.service.ListHistory(ctx, caseID, 0, nil)
	suite.Require().NoError(err)

	_, _, err = suite.service.ListHistory(ctx, caseID, 5000, nil)
	suite.Require().NoError(err)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
