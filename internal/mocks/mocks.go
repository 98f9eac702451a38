package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

// MockEmailService is a mock implementation of service.IEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockEmailService) SendPasswordResetEmail(user *models.User, resetURL string) error {
	args := m.Called(user, resetURL)
	return args.Error(0)
}

func (m *MockEmailService) SendReservationNotification(reservation *models.Reservation) error {
	args := m.Called(reservation)
	return args.Error(0)
}

// MockStorageService is a mock implementation of service.IStorageService
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, kind service.UploadKind, upload *service.ImageUpload) (string, error) {
	args := m.Called(ctx, kind, upload)
	return args.String(0), args.Error(1)
}

// MockRoleService is a mock implementation of service.IRoleService
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// MockObjectUploader stands in for the S3 client
type MockObjectUploader struct {
	mock.Mock
}

func (m *MockObjectUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}
