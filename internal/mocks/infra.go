package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockCache struct {
	mock.Mock
}

// Get returns the mocked (found, error) pair. When found, the value given as
// the third Return argument is copied into dest through JSON.
func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	if args.Bool(0) && len(args) > 2 {
		raw, err := json.Marshal(args.Get(2))
		if err != nil {
			return false, err
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return false, err
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Upload(ctx context.Context, doc *domain.Document, kind string) (string, error) {
	args := m.Called(ctx, doc, kind)
	return args.String(0), args.Error(1)
}
