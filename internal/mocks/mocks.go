package mocks

import (
	"context"

	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of service.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockImageOCR is a mock implementation of service.ImageOCR
type MockImageOCR struct {
	mock.Mock
}

func (m *MockImageOCR) ExtractImageText(ctx context.Context, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Error(1)
}

// MockMailer records password reset emails
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, user *models.User, link string) error {
	args := m.Called(ctx, user, link)
	return args.Error(0)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

type MockPDFExtractor struct {
	mock.Mock
}

func (m *MockPDFExtractor) ExtractPDFText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}
