package services_test

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock ObligationRepository ---
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindObligationsByCompanyAndMonth(ctx context.Context, companyID string, referenceMonth string) ([]domain.Obligation, error) {
	args := m.Called(ctx, companyID, referenceMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error) {
	args := m.Called(ctx, companyID, dueFrom, dueTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindDueSoonUnviewed(ctx context.Context, now time.Time, window time.Duration) ([]domain.Obligation, error) {
	args := m.Called(ctx, now, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindStaleUnviewed(ctx context.Context, createdBefore time.Time, now time.Time) ([]domain.Obligation, error) {
	args := m.Called(ctx, createdBefore, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) UpdateObligation(ctx context.Context, obligation domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) DeleteObligation(ctx context.Context, obligationID string) error {
	args := m.Called(ctx, obligationID)
	return args.Error(0)
}

// --- Mock TaxProfileRepository ---
type MockTaxProfileRepository struct {
	mock.Mock
}

func (m *MockTaxProfileRepository) ListActiveTaxTypes(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTaxProfileRepository) ListTaxProfiles(ctx context.Context, companyID string) ([]domain.CompanyTaxProfile, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyTaxProfile), args.Error(1)
}

func (m *MockTaxProfileRepository) UpsertTaxProfile(ctx context.Context, profile domain.CompanyTaxProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockTaxProfileRepository) DeactivateTaxProfile(ctx context.Context, companyID string, taxType string, updatedBy string) error {
	args := m.Called(ctx, companyID, taxType, updatedBy)
	return args.Error(0)
}

func (m *MockTaxProfileRepository) ReplaceTaxProfiles(ctx context.Context, companyID string, taxTypes []string, updatedBy string) error {
	args := m.Called(ctx, companyID, taxTypes, updatedBy)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindViewsByObligationID(ctx context.Context, obligationID string) ([]domain.ViewEntry, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ViewEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountViews(ctx context.Context, filters portsrepo.LedgerFilters) (int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) ListUnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) ([]domain.Obligation, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockLedgerRepository) CountUnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) (int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) SaveView(ctx context.Context, view domain.ObligationView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockLedgerRepository) CountNotificationsByStatus(ctx context.Context, filters portsrepo.LedgerFilters) (int, int, int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockLedgerRepository) ListNotificationsByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationNotification, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObligationNotification), args.Error(1)
}

func (m *MockLedgerRepository) SaveNotification(ctx context.Context, notification domain.ObligationNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAccountingFirm(ctx context.Context) (*domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveClientUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordAndInvalidateTokens(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, passwordHash, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedBy, deletedAt)
	return args.Error(0)
}

// --- Mock PasswordResetTokenRepository ---
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveToken(ctx context.Context, token domain.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindValidTokenByHash(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteExpiredOrUsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock FileRepository ---
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) SaveFile(ctx context.Context, file domain.ObligationFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) FindFileByID(ctx context.Context, fileID string) (*domain.ObligationFile, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObligationFile), args.Error(1)
}

func (m *MockFileRepository) ListFilesByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationFile, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObligationFile), args.Error(1)
}

func (m *MockFileRepository) CountFilesByObligationIDs(ctx context.Context, obligationIDs []string) (map[string]int, error) {
	args := m.Called(ctx, obligationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockFileRepository) DeleteFile(ctx context.Context, fileID string) (*domain.ObligationFile, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObligationFile), args.Error(1)
}

// --- Mock AuditLogRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogs(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, entityType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockAuditRepository) GetAuditStats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditStatRow), args.Error(1)
}

// --- Mock AuditSvcFacade ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry portssvc.AuditEntry) {
	m.Called(ctx, entry)
}

func (m *MockAuditService) List(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, entityType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockAuditService) Stats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditStatRow), args.Error(1)
}

// --- Mock Mailer ---
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg providers.MailMessage) (providers.SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(providers.SendResult), args.Error(1)
}

// --- Mock ObjectStore ---
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, data []byte, key string, contentType string) (providers.PutResult, error) {
	args := m.Called(ctx, data, key, contentType)
	return args.Get(0).(providers.PutResult), args.Error(1)
}

func (m *MockObjectStore) SignedURL(ctx context.Context, key string, ttl time.Duration, forceDownload bool) (string, error) {
	args := m.Called(ctx, key, ttl, forceDownload)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
