package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/jobs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ObligationReader ---
type MockObligationReader struct {
	mock.Mock
}

func (m *MockObligationReader) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationReader) FindObligationsByCompanyAndMonth(ctx context.Context, companyID string, referenceMonth string) ([]domain.Obligation, error) {
	args := m.Called(ctx, companyID, referenceMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationReader) ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error) {
	args := m.Called(ctx, companyID, dueFrom, dueTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationReader) FindDueSoonUnviewed(ctx context.Context, now time.Time, window time.Duration) ([]domain.Obligation, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationReader) FindStaleUnviewed(ctx context.Context, createdBefore time.Time, now time.Time) ([]domain.Obligation, error) {
	args := m.Called(ctx, createdBefore, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) ListActiveClientUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock DispatchSvcFacade ---
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) DispatchNewDocument(ctx context.Context, obligationID string, senderUserID string) (*domain.DispatchResult, error) {
	args := m.Called(ctx, obligationID, senderUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchResult), args.Error(1)
}

func (m *MockDispatchService) DispatchBatch(ctx context.Context, kind portssvc.NotificationKind, batches []portssvc.RecipientBatch, senderUserID string) (*domain.DispatchResult, error) {
	args := m.Called(ctx, kind, batches, senderUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchResult), args.Error(1)
}

// --- Mock PasswordResetTokenRepository ---
type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) SaveToken(ctx context.Context, token domain.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepo) FindValidTokenByHash(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}

func (m *MockTokenRepo) DeleteExpiredOrUsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jobObligation(companyID string) domain.Obligation {
	return domain.Obligation{
		ObligationID:   uuid.NewString(),
		CompanyID:      companyID,
		Title:          "DAS filing",
		Status:         domain.StatusSubmitted,
		ReferenceMonth: "2025-06",
	}
}

// --- Test Suite ---
type JobsTestSuite struct {
	suite.Suite
	mockObligationRepo *MockObligationReader
	mockUserRepo       *MockUserReader
	mockDispatchSvc    *MockDispatchService
	mockTokenRepo      *MockTokenRepo
}

func (suite *JobsTestSuite) SetupTest() {
	suite.mockObligationRepo = new(MockObligationReader)
	suite.mockUserRepo = new(MockUserReader)
	suite.mockDispatchSvc = new(MockDispatchService)
	suite.mockTokenRepo = new(MockTokenRepo)
}

func (suite *JobsTestSuite) newDocumentReminder() *jobs.DocumentReminder {
	return jobs.NewDocumentReminder(
		suite.mockObligationRepo,
		suite.mockUserRepo,
		suite.mockDispatchSvc,
		discardLogger(),
		time.Hour,
		72*time.Hour,
	)
}

func (suite *JobsTestSuite) newUnviewedAlert() *jobs.UnviewedAlert {
	return jobs.NewUnviewedAlert(
		suite.mockObligationRepo,
		suite.mockUserRepo,
		suite.mockDispatchSvc,
		discardLogger(),
		time.Hour,
		48*time.Hour,
	)
}

func (suite *JobsTestSuite) TestDocumentReminder_NoMatchesSkipsDispatch() {
	ctx := context.Background()

	suite.mockObligationRepo.On("FindDueSoonUnviewed", ctx, mock.AnythingOfType("time.Time"), 72*time.Hour).
		Return([]domain.Obligation{}, nil).Once()

	err := suite.newDocumentReminder().RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockDispatchSvc.AssertNotCalled(suite.T(), "DispatchBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobsTestSuite) TestDocumentReminder_BatchesByRecipient() {
	ctx := context.Background()
	companyID := uuid.NewString()
	first := jobObligation(companyID)
	second := jobObligation(companyID)
	recipient := domain.User{UserID: uuid.NewString(), Email: "maria@acme.com", Role: domain.RoleClientUser, CompanyID: companyID}

	suite.mockObligationRepo.On("FindDueSoonUnviewed", ctx, mock.AnythingOfType("time.Time"), 72*time.Hour).
		Return([]domain.Obligation{first, second}, nil).Once()
	suite.mockUserRepo.On("ListActiveClientUsersByCompany", ctx, companyID).
		Return([]domain.User{recipient}, nil).Once()
	suite.mockDispatchSvc.On("DispatchBatch", ctx, portssvc.KindDueReminder, mock.MatchedBy(func(batches []portssvc.RecipientBatch) bool {
		return len(batches) == 1 && batches[0].Email == "maria@acme.com" && len(batches[0].Obligations) == 2
	}), "system").Return(&domain.DispatchResult{Success: true, Sent: 1, Total: 1}, nil).Once()

	err := suite.newDocumentReminder().RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockDispatchSvc.AssertExpectations(suite.T())
}

func (suite *JobsTestSuite) TestDocumentReminder_CompanyWithoutUsersIsSkipped() {
	ctx := context.Background()
	reachableCompany := uuid.NewString()
	silentCompany := uuid.NewString()
	reachable := jobObligation(reachableCompany)
	unreachable := jobObligation(silentCompany)
	recipient := domain.User{UserID: uuid.NewString(), Email: "maria@acme.com", Role: domain.RoleClientUser, CompanyID: reachableCompany}

	suite.mockObligationRepo.On("FindDueSoonUnviewed", ctx, mock.AnythingOfType("time.Time"), 72*time.Hour).
		Return([]domain.Obligation{reachable, unreachable}, nil).Once()
	suite.mockUserRepo.On("ListActiveClientUsersByCompany", ctx, reachableCompany).
		Return([]domain.User{recipient}, nil).Once()
	suite.mockUserRepo.On("ListActiveClientUsersByCompany", ctx, silentCompany).
		Return([]domain.User{}, nil).Once()
	suite.mockDispatchSvc.On("DispatchBatch", ctx, portssvc.KindDueReminder, mock.MatchedBy(func(batches []portssvc.RecipientBatch) bool {
		return len(batches) == 1 && len(batches[0].Obligations) == 1 && batches[0].Obligations[0].ObligationID == reachable.ObligationID
	}), "system").Return(&domain.DispatchResult{Success: true, Sent: 1, Total: 1}, nil).Once()

	err := suite.newDocumentReminder().RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockDispatchSvc.AssertExpectations(suite.T())
}

func (suite *JobsTestSuite) TestDocumentReminder_RepoErrorPropagates() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockObligationRepo.On("FindDueSoonUnviewed", ctx, mock.AnythingOfType("time.Time"), 72*time.Hour).
		Return(nil, expectedErr).Once()

	err := suite.newDocumentReminder().RunOnce(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
}

func (suite *JobsTestSuite) TestUnviewedAlert_UsesThresholdCutoff() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := jobObligation(companyID)
	recipient := domain.User{UserID: uuid.NewString(), Email: "maria@acme.com", Role: domain.RoleClientUser, CompanyID: companyID}

	suite.mockObligationRepo.On("FindStaleUnviewed", ctx, mock.MatchedBy(func(createdBefore time.Time) bool {
		return time.Since(createdBefore) >= 48*time.Hour
	}), mock.AnythingOfType("time.Time")).Return([]domain.Obligation{obligation}, nil).Once()
	suite.mockUserRepo.On("ListActiveClientUsersByCompany", ctx, companyID).
		Return([]domain.User{recipient}, nil).Once()
	suite.mockDispatchSvc.On("DispatchBatch", ctx, portssvc.KindUnviewedAlert, mock.AnythingOfType("[]services.RecipientBatch"), "system").
		Return(&domain.DispatchResult{Success: true, Sent: 1, Total: 1}, nil).Once()

	err := suite.newUnviewedAlert().RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockDispatchSvc.AssertExpectations(suite.T())
}

func (suite *JobsTestSuite) TestUnviewedAlert_NoReachableRecipientsIsNotAnError() {
	ctx := context.Background()
	companyID := uuid.NewString()
	obligation := jobObligation(companyID)

	suite.mockObligationRepo.On("FindStaleUnviewed", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]domain.Obligation{obligation}, nil).Once()
	suite.mockUserRepo.On("ListActiveClientUsersByCompany", ctx, companyID).
		Return([]domain.User{{UserID: uuid.NewString(), Email: "", CompanyID: companyID}}, nil).Once()

	err := suite.newUnviewedAlert().RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockDispatchSvc.AssertNotCalled(suite.T(), "DispatchBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobsTestSuite) TestTokenCleanup_ReportsDeleted() {
	ctx := context.Background()

	suite.mockTokenRepo.On("DeleteExpiredOrUsed", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(7), nil).Once()

	job := jobs.NewTokenCleanup(suite.mockTokenRepo, discardLogger(), time.Hour)
	err := job.RunOnce(ctx)

	suite.Require().NoError(err)
	suite.mockTokenRepo.AssertExpectations(suite.T())
}

func (suite *JobsTestSuite) TestTokenCleanup_RepoErrorPropagates() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockTokenRepo.On("DeleteExpiredOrUsed", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(0), expectedErr).Once()

	job := jobs.NewTokenCleanup(suite.mockTokenRepo, discardLogger(), time.Hour)
	err := job.RunOnce(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
}

func TestJobs(t *testing.T) {
	suite.Run(t, new(JobsTestSuite))
}
