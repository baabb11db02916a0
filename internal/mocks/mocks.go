package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/weekprep/backend/internal/extraction"
)

// MockMediaStore is a mock implementation of service.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

// MockExtractor is a mock implementation of extraction.Extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, imageBase64 string) (*extraction.Draft, error) {
	args := m.Called(ctx, imageBase64)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Draft), args.Error(1)
}

func (m *MockExtractor) Name() string {
	return "mock"
}
