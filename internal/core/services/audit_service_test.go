package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockAuditRepo *MockAuditRepository
	service       portssvc.AuditSvcFacade
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewAuditService(suite.mockAuditRepo)
}

func (suite *AuditServiceTestSuite) TestRecord_PersistsEntry() {
	ctx := context.Background()
	userID := uuid.NewString()
	entityID := uuid.NewString()

	suite.mockAuditRepo.On("SaveAuditLog", ctx, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.UserID == userID &&
			l.Action == "STATUS_CHANGE" &&
			l.EntityType == "obligation" &&
			l.EntityID == entityID &&
			l.AuditID != ""
	})).Return(nil).Once()

	suite.service.Record(ctx, portssvc.AuditEntry{
		UserID:     userID,
		Action:     "STATUS_CHANGE",
		EntityType: "obligation",
		EntityID:   entityID,
	})

	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestRecord_StorageFailureIsSwallowed() {
	ctx := context.Background()

	suite.mockAuditRepo.On("SaveAuditLog", ctx, mock.AnythingOfType("domain.AuditLog")).
		Return(assert.AnError).Once()

	suite.NotPanics(func() {
		suite.service.Record(ctx, portssvc.AuditEntry{UserID: uuid.NewString(), Action: "CREATE", EntityType: "obligation", EntityID: uuid.NewString()})
	})
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestList_ClampsLimit() {
	ctx := context.Background()

	suite.mockAuditRepo.On("ListAuditLogs", ctx, (*string)(nil), 100).
		Return([]domain.AuditLog{}, nil).Twice()

	_, err := suite.service.List(ctx, nil, 0)
	suite.Require().NoError(err)
	_, err = suite.service.List(ctx, nil, 10000)
	suite.Require().NoError(err)

	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestList_NilBecomesEmpty() {
	ctx := context.Background()
	entityType := "obligation"

	suite.mockAuditRepo.On("ListAuditLogs", ctx, &entityType, 50).Return(nil, nil).Once()

	logs, err := suite.service.List(ctx, &entityType, 50)

	suite.Require().NoError(err)
	suite.NotNil(logs)
	suite.Empty(logs)
}

func (suite *AuditServiceTestSuite) TestStats_PassesWindow() {
	ctx := context.Background()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.AuditStatRow{{Action: "CREATE", EntityType: "obligation", Count: 12}}

	suite.mockAuditRepo.On("GetAuditStats", ctx, from, to).Return(rows, nil).Once()

	stats, err := suite.service.Stats(ctx, from, to)

	suite.Require().NoError(err)
	suite.Equal(rows, stats)
}

func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
