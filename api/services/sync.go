package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idcard-hub/idcard-menu-services/db"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog/log"
)

// ApplyEvent applies a consumed menu event to the store. Upserts go through
// the same validation as API writes; deleting a missing menu is a no-op.
// Applied events are not republished.
func (svc *MenuService) ApplyEvent(ctx context.Context, event models.MenuEvent) error {
	switch event.Action {
	case models.MenuEventUpsert:
		if event.Menu == nil {
			return invalid("upsert event carries no menu")
		}

		menu := NormalizeMenu(*event.Menu)
		menu.ID = event.MenuID
		if err := ValidateMenu(menu); err != nil {
			return err
		}

		existing, err := svc.DB.GetMenu(ctx, menu.ID)
		if err != nil {
			return fmt.Errorf("error looking up menu %s: %w", menu.ID, err)
		}

		if existing == nil {
			if _, err := svc.DB.CreateMenu(ctx, &menu); err != nil {
				return fmt.Errorf("error creating menu %s: %w", menu.ID, err)
			}
			return nil
		}

		if _, err := svc.DB.UpdateMenu(ctx, menu.ID, menu); err != nil {
			return fmt.Errorf("error updating menu %s: %w", menu.ID, err)
		}
		return nil

	case models.MenuEventDelete:
		err := svc.DB.DeleteMenu(ctx, event.MenuID)
		if err != nil && !errors.Is(err, db.ErrMenuNotFound) {
			return fmt.Errorf("error deleting menu %s: %w", event.MenuID, err)
		}
		return nil

	default:
		return invalid(fmt.Sprintf("unknown event action %q", event.Action))
	}
}

// Seed inserts default menus that are not present yet, matching existing
// menus by case-insensitive title. With reset every menu is deleted first.
// It returns the number of menus created.
func (svc *MenuService) Seed(ctx context.Context, definitions []models.Menu, reset bool) (int, error) {
	existing, err := svc.DB.GetMenus(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading existing menus: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	if reset {
		for _, menu := range existing {
			if err := svc.DB.DeleteMenu(ctx, menu.ID); err != nil && !errors.Is(err, db.ErrMenuNotFound) {
				return 0, fmt.Errorf("error deleting menu %s: %w", menu.ID, err)
			}
		}
	} else {
		for _, menu := range existing {
			seen[menuKey(menu.Title)] = true
		}
	}

	created := 0
	for _, definition := range definitions {
		menu := NormalizeMenu(definition)
		if err := ValidateMenu(menu); err != nil {
			log.Warn().Err(err).Str("title", menu.Title).Msg("Skipping invalid menu definition")
			continue
		}

		key := menuKey(menu.Title)
		if seen[key] {
			log.Debug().Str("title", menu.Title).Msg("Menu already present")
			continue
		}

		if _, err := svc.DB.CreateMenu(ctx, &menu); err != nil {
			return created, fmt.Errorf("error creating menu %q: %w", menu.Title, err)
		}
		seen[key] = true
		created++
	}

	return created, nil
}

func menuKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
