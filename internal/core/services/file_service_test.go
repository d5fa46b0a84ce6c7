package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FileServiceTestSuite struct {
	suite.Suite
	mockFileRepo       *MockFileRepository
	mockObligationRepo *MockObligationRepository
	mockStore          *MockObjectStore
	mockAuditSvc       *MockAuditService
	service            portssvc.FileSvcFacade
}

func (suite *FileServiceTestSuite) SetupTest() {
	suite.mockFileRepo = new(MockFileRepository)
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockStore = new(MockObjectStore)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewFileService(
		suite.mockFileRepo,
		suite.mockObligationRepo,
		suite.mockStore,
		suite.mockAuditSvc,
	)
}

func (suite *FileServiceTestSuite) TestUploadFile_Success() {
	ctx := context.Background()
	obligation := testObligation(uuid.NewString(), "DAS")
	data := []byte("%PDF-1.7 fake content")
	uploaderID := uuid.NewString()

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockStore.On("Put", ctx, data, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "obligations/"+obligation.ObligationID+"/") && strings.HasSuffix(key, ".pdf")
	}), "application/pdf").Return(providers.PutResult{Key: "obligations/x/y.pdf"}, nil).Once()
	suite.mockFileRepo.On("SaveFile", ctx, mock.MatchedBy(func(f domain.ObligationFile) bool {
		return f.ObligationID == obligation.ObligationID &&
			f.FileName == "das-junho.pdf" &&
			f.SizeBytes == int64(len(data)) &&
			f.CreatedBy == uploaderID
	})).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.AnythingOfType("services.AuditEntry")).Return().Once()

	file, err := suite.service.UploadFile(ctx, obligation.ObligationID, "das-junho.pdf", "application/pdf", data, uploaderID)

	suite.Require().NoError(err)
	suite.Require().NotNil(file)
	suite.Equal("das-junho.pdf", file.FileName)
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockFileRepo.AssertExpectations(suite.T())
}

func (suite *FileServiceTestSuite) TestUploadFile_EmptyContent() {
	ctx := context.Background()

	file, err := suite.service.UploadFile(ctx, uuid.NewString(), "empty.pdf", "application/pdf", nil, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(file)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStore.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FileServiceTestSuite) TestUploadFile_ObligationNotFound() {
	ctx := context.Background()
	obligationID := uuid.NewString()

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligationID).Return(nil, nil).Once()

	file, err := suite.service.UploadFile(ctx, obligationID, "das.pdf", "application/pdf", []byte("data"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(file)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FileServiceTestSuite) TestUploadFile_MetadataFailureCleansUpObject() {
	ctx := context.Background()
	obligation := testObligation(uuid.NewString(), "DAS")
	expectedErr := assert.AnError

	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockStore.On("Put", ctx, mock.Anything, mock.AnythingOfType("string"), "application/pdf").
		Return(providers.PutResult{Key: "obligations/x/y.pdf"}, nil).Once()
	suite.mockFileRepo.On("SaveFile", ctx, mock.AnythingOfType("domain.ObligationFile")).Return(expectedErr).Once()
	suite.mockStore.On("Delete", ctx, "obligations/x/y.pdf").Return(true, nil).Once()

	file, err := suite.service.UploadFile(ctx, obligation.ObligationID, "das.pdf", "application/pdf", []byte("data"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(file)
	suite.ErrorIs(err, expectedErr)
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *FileServiceTestSuite) TestSignedDownloadURL_Success() {
	ctx := context.Background()
	file := &domain.ObligationFile{FileID: uuid.NewString(), StorageKey: "obligations/x/y.pdf"}

	suite.mockFileRepo.On("FindFileByID", ctx, file.FileID).Return(file, nil).Once()
	suite.mockStore.On("SignedURL", ctx, file.StorageKey, 15*time.Minute, true).
		Return("https://bucket.s3.amazonaws.com/signed", nil).Once()

	url, err := suite.service.SignedDownloadURL(ctx, file.FileID, 15*time.Minute, true)

	suite.Require().NoError(err)
	suite.Equal("https://bucket.s3.amazonaws.com/signed", url)
}

func (suite *FileServiceTestSuite) TestSignedDownloadURL_FileNotFound() {
	ctx := context.Background()
	fileID := uuid.NewString()

	suite.mockFileRepo.On("FindFileByID", ctx, fileID).Return(nil, nil).Once()

	url, err := suite.service.SignedDownloadURL(ctx, fileID, time.Minute, false)

	suite.Require().Error(err)
	suite.Empty(url)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FileServiceTestSuite) TestDeleteFile_StoreFailureIsTolerated() {
	ctx := context.Background()
	file := &domain.ObligationFile{FileID: uuid.NewString(), StorageKey: "obligations/x/y.pdf"}
	actorID := uuid.NewString()

	suite.mockFileRepo.On("DeleteFile", ctx, file.FileID).Return(file, nil).Once()
	suite.mockStore.On("Delete", ctx, file.StorageKey).Return(false, assert.AnError).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.AnythingOfType("services.AuditEntry")).Return().Once()

	err := suite.service.DeleteFile(ctx, file.FileID, actorID)

	suite.Require().NoError(err)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *FileServiceTestSuite) TestDeleteFile_RowMissing() {
	ctx := context.Background()
	fileID := uuid.NewString()

	suite.mockFileRepo.On("DeleteFile", ctx, fileID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteFile(ctx, fileID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockStore.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func TestFileService(t *testing.T) {
	suite.Run(t, new(FileServiceTestSuite))
}
