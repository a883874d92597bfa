package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediacore/internal/model"
	"mediacore/internal/service"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) ProcessImages(ctx context.Context, body []byte, contentType string, opts service.ImageOptions) (*model.ImageUploadResult, error) {
	args := m.Called(ctx, body, contentType, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageUploadResult), args.Error(1)
}

func (m *MockUploadService) ProcessPDFs(ctx context.Context, body []byte, contentType string, opts service.PDFOptions) (*model.PDFUploadResult, error) {
	args := m.Called(ctx, body, contentType, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDFUploadResult), args.Error(1)
}
