package mocks

import (
	"context"

	"media-manager/core/asset"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of asset.Store
type Store struct {
	mock.Mock
}

func (m *Store) Upload(ctx context.Context, data []byte, opts asset.Options) (asset.Uploaded, error) {
	args := m.Called(ctx, data, opts)
	return args.Get(0).(asset.Uploaded), args.Error(1)
}

func (m *Store) Delete(ctx context.Context, ref asset.Reference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
