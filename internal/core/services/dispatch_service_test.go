package services_test

import (
	"context"
	"testing"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/core/services"
	"github.com/contaflow/tax_compliance_app/internal/utils/retry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DispatchServiceTestSuite struct {
	suite.Suite
	mockObligationRepo *MockObligationRepository
	mockCompanyRepo    *MockCompanyRepository
	mockLedgerRepo     *MockLedgerRepository
	mockMailer         *MockMailer
	service            portssvc.DispatchSvcFacade
}

func (suite *DispatchServiceTestSuite) SetupTest() {
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockMailer = new(MockMailer)
	suite.service = services.NewDispatchService(
		suite.mockObligationRepo,
		suite.mockCompanyRepo,
		suite.mockLedgerRepo,
		suite.mockMailer,
		"noreply@contaflow.com.br",
		services.WithRetryConfig(retry.Config{MaxAttempts: 1}),
	)
}

func (suite *DispatchServiceTestSuite) TestDispatchNewDocument_Success() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := testObligation(companyID, "DAS")
	company := &domain.Company{CompanyID: companyID, Name: "Acme Ltda", Email: stringPtr("fiscal@acme.com")}
	senderID := uuid.NewString()

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(company, nil).Once()
	suite.mockCompanyRepo.On("FindAccountingFirm", ctx).Return(nil, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg providers.MailMessage) bool {
		return msg.To == "fiscal@acme.com" && msg.From == "noreply@contaflow.com.br" && msg.Subject != ""
	})).Return(providers.SendResult{Success: true, MessageID: "msg-1"}, nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.ObligationID == obligation.ObligationID &&
			n.RecipientEmail == "fiscal@acme.com" &&
			n.SentByUserID == senderID &&
			n.EmailStatus == domain.EmailSent &&
			n.EmailError == nil
	})).Return(nil).Once()

	result, err := suite.service.DispatchNewDocument(ctx, obligation.ObligationID, senderID)

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Equal(1, result.Sent)
	suite.Equal(1, result.Total)
	suite.mockMailer.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestDispatchNewDocument_CompanyWithoutEmail() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := testObligation(companyID, "DAS")
	company := &domain.Company{CompanyID: companyID, Name: "Acme Ltda"}

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(company, nil).Once()

	result, err := suite.service.DispatchNewDocument(ctx, obligation.ObligationID, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(0, result.Sent)
	suite.Equal(1, result.Total)
	suite.Equal("Empresa sem email cadastrado", result.Message)
	suite.mockMailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveNotification", mock.Anything, mock.Anything)
}

func (suite *DispatchServiceTestSuite) TestDispatchNewDocument_DeliveryFailureRecordsFailedRow() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := testObligation(companyID, "DAS")
	company := &domain.Company{CompanyID: companyID, Name: "Acme Ltda", Email: stringPtr("fiscal@acme.com")}

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(company, nil).Once()
	suite.mockCompanyRepo.On("FindAccountingFirm", ctx).Return(nil, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.AnythingOfType("providers.MailMessage")).
		Return(providers.SendResult{Success: false, Error: "550 mailbox unavailable"}, nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.EmailStatus == domain.EmailFailed && n.EmailError != nil && *n.EmailError == "550 mailbox unavailable"
	})).Return(nil).Once()

	result, err := suite.service.DispatchNewDocument(ctx, obligation.ObligationID, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(0, result.Sent)
	suite.Equal(1, result.Total)
	suite.Equal("550 mailbox unavailable", result.Message)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestDispatchNewDocument_ObligationNotFound() {
	ctx := context.Background()
	obligationID := uuid.NewString()

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligationID).Return(nil, nil).Once()

	result, err := suite.service.DispatchNewDocument(ctx, obligationID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DispatchServiceTestSuite) TestDispatchNewDocument_FirmEmailUsedAsSender() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := testObligation(companyID, "DAS")
	company := &domain.Company{CompanyID: companyID, Name: "Acme Ltda", Email: stringPtr("fiscal@acme.com")}
	firm := &domain.Company{CompanyID: uuid.NewString(), Name: "ContaFlow", Email: stringPtr("contato@contaflow.com.br"), IsAccountingFirm: true}

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, companyID).Return(company, nil).Once()
	suite.mockCompanyRepo.On("FindAccountingFirm", ctx).Return(firm, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg providers.MailMessage) bool {
		return msg.From == "contato@contaflow.com.br"
	})).Return(providers.SendResult{Success: true}, nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.AnythingOfType("domain.ObligationNotification")).Return(nil).Once()

	result, err := suite.service.DispatchNewDocument(ctx, obligation.ObligationID, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.mockMailer.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestDispatchBatch_EmptyIsNoop() {
	ctx := context.Background()

	result, err := suite.service.DispatchBatch(ctx, portssvc.KindDueReminder, nil, "system")

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Zero(result.Sent)
	suite.Zero(result.Total)
	suite.mockMailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *DispatchServiceTestSuite) TestDispatchBatch_FailingRecipientDoesNotStopOthers() {
	ctx := context.Background()
	firstObligation := testObligation(uuid.NewString(), "DAS")
	secondObligation := testObligation(uuid.NewString(), "FGTS")
	batches := []portssvc.RecipientBatch{
		{Email: "a@acme.com", Obligations: []domain.Obligation{firstObligation}},
		{Email: "b@beta.com", Obligations: []domain.Obligation{secondObligation}},
	}

	suite.mockCompanyRepo.On("FindAccountingFirm", ctx).Return(nil, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg providers.MailMessage) bool {
		return msg.To == "a@acme.com"
	})).Return(providers.SendResult{Success: false, Error: "connection reset"}, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.MatchedBy(func(msg providers.MailMessage) bool {
		return msg.To == "b@beta.com"
	})).Return(providers.SendResult{Success: true}, nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.ObligationID == firstObligation.ObligationID && n.EmailStatus == domain.EmailFailed
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.ObligationID == secondObligation.ObligationID && n.EmailStatus == domain.EmailSent
	})).Return(nil).Once()

	result, err := suite.service.DispatchBatch(ctx, portssvc.KindDueReminder, batches, "system")

	suite.Require().NoError(err)
	suite.False(result.Success)
	suite.Equal(1, result.Sent)
	suite.Equal(2, result.Total)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *DispatchServiceTestSuite) TestDispatchBatch_OneLedgerRowPerObligation() {
	ctx := context.Background()
	companyID := uuid.NewString()
	first := testObligation(companyID, "DAS")
	second := testObligation(companyID, "FGTS")
	batches := []portssvc.RecipientBatch{
		{Email: "fiscal@acme.com", Obligations: []domain.Obligation{first, second}},
	}

	suite.mockCompanyRepo.On("FindAccountingFirm", ctx).Return(nil, nil).Once()
	suite.mockMailer.On("Send", ctx, mock.AnythingOfType("providers.MailMessage")).
		Return(providers.SendResult{Success: true}, nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.ObligationID == first.ObligationID && n.RecipientEmail == "fiscal@acme.com"
	})).Return(nil).Once()
	suite.mockLedgerRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.ObligationNotification) bool {
		return n.ObligationID == second.ObligationID && n.RecipientEmail == "fiscal@acme.com"
	})).Return(nil).Once()

	result, err := suite.service.DispatchBatch(ctx, portssvc.KindUnviewedAlert, batches, "system")

	suite.Require().NoError(err)
	suite.True(result.Success)
	suite.Equal(1, result.Sent)
	suite.Equal(1, result.Total)
	suite.mockMailer.AssertNumberOfCalls(suite.T(), "Send", 1)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestDispatchService(t *testing.T) {
	suite.Run(t, new(DispatchServiceTestSuite))
}
