package services

import (
	"context"

	"github.com/idcard-hub/idcard-menu-services/internal/appconfig"
	"github.com/idcard-hub/idcard-menu-services/internal/events"
	"github.com/idcard-hub/idcard-menu-services/models"
)

// MenuStore is the persistence layer the menu service depends on.
type MenuStore interface {
	GetMenus(ctx context.Context) ([]models.Menu, error)
	GetMenu(ctx context.Context, menuID string) (*models.Menu, error)
	CreateMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error)
	UpdateMenu(ctx context.Context, menuID string, menu models.Menu) (*models.Menu, error)
	DeleteMenu(ctx context.Context, menuID string) error
	ReorderMenus(ctx context.Context, orders []models.MenuOrder) error
}

// MenuService contains all shared dependencies for the menu handlers.
// Publisher is optional.
type MenuService struct {
	Config    *appconfig.Config
	DB        MenuStore
	Publisher events.Notifier
}
