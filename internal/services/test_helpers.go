package services

import (
	"github.com/stretchr/testify/mock"

	"dataclean/internal/datasets"
)

// MockStore is a mock for the datasets.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ds *datasets.Dataset) error {
	args := m.Called(ds)
	return args.Error(0)
}

func (m *MockStore) Get(id string) (*datasets.Dataset, error) {
	args := m.Called(id)
	if ds := args.Get(0); ds != nil {
		return ds.(*datasets.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) Count() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockStore) CleanupExpired() int {
	args := m.Called()
	return args.Int(0)
}
