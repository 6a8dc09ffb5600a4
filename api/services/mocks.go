package services

import (
	"context"

	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/stretchr/testify/mock"
)

type MockMenuDB struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockMenuDB) GetMenus(ctx context.Context) ([]models.Menu, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Menu), args.Error(1)
}

func (m *MockMenuDB) GetMenu(ctx context.Context, menuID string) (*models.Menu, error) {
	args := m.Called(ctx, menuID)
	return args.Get(0).(*models.Menu), args.Error(1)
}

func (m *MockMenuDB) CreateMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error) {
	args := m.Called(ctx, menu)
	return args.Get(0).(*models.Menu), args.Error(1)
}

func (m *MockMenuDB) UpdateMenu(ctx context.Context, menuID string, menu models.Menu) (*models.Menu, error) {
	args := m.Called(ctx, menuID, menu)
	return args.Get(0).(*models.Menu), args.Error(1)
}

func (m *MockMenuDB) DeleteMenu(ctx context.Context, menuID string) error {
	args := m.Called(ctx, menuID)
	return args.Error(0)
}

func (m *MockMenuDB) ReorderMenus(ctx context.Context, orders []models.MenuOrder) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

// Mock the Publish method
func (m *MockEventPublisher) Publish(event models.MenuEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// Mock the Close method
func (m *MockEventPublisher) Close() {
	m.Called()
}
