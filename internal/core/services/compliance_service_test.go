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

type ComplianceServiceTestSuite struct {
	suite.Suite
	mockTaxProfileRepo *MockTaxProfileRepository
	mockObligationRepo *MockObligationRepository
	mockFileRepo       *MockFileRepository
	mockCompanyRepo    *MockCompanyRepository
	service            portssvc.ComplianceSvcFacade
}

func (suite *ComplianceServiceTestSuite) SetupTest() {
	suite.mockTaxProfileRepo = new(MockTaxProfileRepository)
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockFileRepo = new(MockFileRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.service = services.NewComplianceService(
		suite.mockTaxProfileRepo,
		suite.mockObligationRepo,
		suite.mockFileRepo,
		suite.mockCompanyRepo,
	)
}

func stringPtr(s string) *string {
	return &s
}

func testObligation(companyID, taxType string) domain.Obligation {
	o := domain.Obligation{
		ObligationID:   uuid.NewString(),
		CompanyID:      companyID,
		Title:          taxType + " filing",
		Regime:         domain.RegimeSimplesNacional,
		DueDate:        time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusPending,
		ReferenceMonth: "2025-06",
	}
	if taxType != "" {
		o.TaxType = stringPtr(taxType)
	}
	return o
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_MissingTaxTypes() {
	ctx := context.Background()
	companyID := uuid.NewString()
	dasObligation := testObligation(companyID, "DAS")

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return([]string{"DAS", "FGTS"}, nil).Once()
	suite.mockObligationRepo.On("FindObligationsByCompanyAndMonth", ctx, companyID, "2025-06").
		Return([]domain.Obligation{dasObligation}, nil).Once()
	suite.mockFileRepo.On("CountFilesByObligationIDs", ctx, []string{dasObligation.ObligationID}).
		Return(map[string]int{dasObligation.ObligationID: 2}, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).
		Return(&domain.Company{CompanyID: companyID, Name: "Acme Ltda"}, nil).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal([]string{"FGTS"}, result.Missing)
	suite.InDelta(0.5, result.CompletionRate, 0.0001)
	suite.Require().Len(result.Obligations, 1)
	suite.True(result.Obligations[0].HasFile)
	suite.Require().NotNil(result.CompanyName)
	suite.Equal("Acme Ltda", *result.CompanyName)

	suite.mockTaxProfileRepo.AssertExpectations(suite.T())
	suite.mockObligationRepo.AssertExpectations(suite.T())
	suite.mockFileRepo.AssertExpectations(suite.T())
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_NothingExpected() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return([]string{}, nil).Once()
	suite.mockObligationRepo.On("FindObligationsByCompanyAndMonth", ctx, companyID, "2025-06").
		Return([]domain.Obligation{}, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(nil, nil).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().NoError(err)
	suite.Empty(result.Missing)
	suite.Equal(1.0, result.CompletionRate)
	suite.Nil(result.CompanyName)
	suite.mockFileRepo.AssertNotCalled(suite.T(), "CountFilesByObligationIDs", mock.Anything, mock.Anything)
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_DuplicateTaxTypeSurfacedOnce() {
	ctx := context.Background()
	companyID := uuid.NewString()
	first := testObligation(companyID, "DAS")
	second := testObligation(companyID, "DAS")

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return([]string{"DAS"}, nil).Once()
	suite.mockObligationRepo.On("FindObligationsByCompanyAndMonth", ctx, companyID, "2025-06").
		Return([]domain.Obligation{first, second}, nil).Once()
	suite.mockFileRepo.On("CountFilesByObligationIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]int{}, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(nil, nil).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().NoError(err)
	suite.Require().Len(result.Obligations, 1)
	suite.Equal(first.ObligationID, result.Obligations[0].ObligationID)
	suite.Empty(result.Missing)
	suite.Equal(1.0, result.CompletionRate)
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_UntypedObligationDoesNotSatisfyExpectation() {
	ctx := context.Background()
	companyID := uuid.NewString()
	untyped := testObligation(companyID, "")

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return([]string{"DAS"}, nil).Once()
	suite.mockObligationRepo.On("FindObligationsByCompanyAndMonth", ctx, companyID, "2025-06").
		Return([]domain.Obligation{untyped}, nil).Once()
	suite.mockFileRepo.On("CountFilesByObligationIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]int{}, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(nil, nil).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().NoError(err)
	suite.Equal([]string{"DAS"}, result.Missing)
	suite.Len(result.Obligations, 1)
	suite.Equal(0.0, result.CompletionRate)
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_ProfileRepoError() {
	ctx := context.Background()
	companyID := uuid.NewString()
	expectedErr := assert.AnError

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return(nil, expectedErr).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, expectedErr)
}

func (suite *ComplianceServiceTestSuite) TestMonthlyControl_CompanyLookupFailureIsTolerated() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockTaxProfileRepo.On("ListActiveTaxTypes", ctx, companyID).Return([]string{}, nil).Once()
	suite.mockObligationRepo.On("FindObligationsByCompanyAndMonth", ctx, companyID, "2025-06").
		Return([]domain.Obligation{}, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(nil, assert.AnError).Once()

	result, err := suite.service.MonthlyControl(ctx, companyID, "2025-06")

	suite.Require().NoError(err)
	suite.Nil(result.CompanyName)
}

func TestComplianceService(t *testing.T) {
	suite.Run(t, new(ComplianceServiceTestSuite))
}
