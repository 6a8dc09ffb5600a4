package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/lib/pq"
)

// GetMenus retrieves every menu with its sub-menus, in sidebar order.
func (m *MenuDB) GetMenus(ctx context.Context) ([]models.Menu, error) {
	query := `SELECT id, title, icon, url, is_collapsible, position, created_at, updated_at FROM menus ORDER BY position, created_at, id`
	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving menus: %w", err)
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning menus: %w", err)
		}
		menus = append(menus, *menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menus: %w", err)
	}

	if err := m.attachSubMenus(ctx, menus); err != nil {
		return nil, err
	}

	return menus, nil
}

// GetMenu retrieves a single menu. A missing menu returns nil and no error.
func (m *MenuDB) GetMenu(ctx context.Context, menuID string) (*models.Menu, error) {
	query := `SELECT id, title, icon, url, is_collapsible, position, created_at, updated_at FROM menus WHERE id = $1`
	row := m.DB.QueryRowContext(ctx, query, menuID)

	menu, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning menu: %w", err)
	}

	menus := []models.Menu{*menu}
	if err := m.attachSubMenus(ctx, menus); err != nil {
		return nil, err
	}

	return &menus[0], nil
}

// CreateMenu inserts a menu and its sub-menus. Missing ids are generated and
// a menu without an explicit order is appended after the last one.
func (m *MenuDB) CreateMenu(ctx context.Context, req *models.Menu) (*models.Menu, error) {

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	menu := *req
	if menu.ID == "" {
		menu.ID = uuid.New().String()
	}

	position := 0
	if menu.Order != nil {
		position = *menu.Order
	} else {
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM menus`).Scan(&position); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("error computing menu position: %w", err)
		}
	}
	menu.Order = &position

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err = m.execQuery(ctx, tx, `
		INSERT INTO menus (id, title, icon, url, is_collapsible, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		menu.ID, menu.Title, nullString(menu.Icon), nullString(menu.URL), menu.IsCollapsible, position, now)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error inserting menu: %w", err)
	}

	menu.SubMenus, err = m.insertSubMenus(ctx, tx, menu.ID, menu.SubMenus)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := m.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	menu.CreatedAt = models.FormatTime(now)
	menu.UpdatedAt = models.FormatTime(now)

	m.Log.Debug().Str("menu_id", menu.ID).Msg("Menu inserted")
	return &menu, nil
}

// UpdateMenu replaces a menu's fields and sub-menus.
func (m *MenuDB) UpdateMenu(ctx context.Context, menuID string, menu models.Menu) (*models.Menu, error) {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	// Roll back on any error after this point
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC().Truncate(time.Microsecond)
	var createdAt time.Time
	var position int
	err = tx.QueryRowContext(ctx, `
		UPDATE menus
		SET title = $1, icon = $2, url = $3, is_collapsible = $4, position = COALESCE($5, position), updated_at = $6
		WHERE id = $7
		RETURNING created_at, position`,
		menu.Title, nullString(menu.Icon), nullString(menu.URL), menu.IsCollapsible, nullInt(menu.Order), now, menuID).
		Scan(&createdAt, &position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("error updating menu: %w", err)
	}

	if _, err = m.execQuery(ctx, tx, `DELETE FROM sub_menus WHERE menu_id = $1`, menuID); err != nil {
		return nil, fmt.Errorf("error clearing sub-menus: %w", err)
	}

	menu.SubMenus, err = m.insertSubMenus(ctx, tx, menuID, menu.SubMenus)
	if err != nil {
		return nil, err
	}

	if err = m.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	menu.ID = menuID
	menu.Order = &position
	menu.CreatedAt = models.FormatTime(createdAt)
	menu.UpdatedAt = models.FormatTime(now)

	m.Log.Debug().Str("menu_id", menuID).Msg("Menu updated")
	return &menu, nil
}

// DeleteMenu deletes a menu by its ID. Sub-menus go with it.
func (m *MenuDB) DeleteMenu(ctx context.Context, menuID string) error {
	res, err := m.DB.ExecContext(ctx, `DELETE FROM menus WHERE id = $1`, menuID)
	if err != nil {
		return fmt.Errorf("error executing delete query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrMenuNotFound
	}

	return nil
}

// ReorderMenus updates menu positions. Unknown ids are skipped.
func (m *MenuDB) ReorderMenus(ctx context.Context, orders []models.MenuOrder) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	for _, entry := range orders {
		if entry.ID == "" {
			continue
		}
		if _, err := m.execQuery(ctx, tx, `UPDATE menus SET position = $1 WHERE id = $2`, entry.Order, entry.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("error reordering menu %s: %w", entry.ID, err)
		}
	}

	if err := m.CommitTransaction(tx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (m *MenuDB) insertSubMenus(ctx context.Context, tx *sql.Tx, menuID string, subMenus []models.SubMenu) ([]models.SubMenu, error) {
	if len(subMenus) == 0 {
		return nil, nil
	}

	stored := make([]models.SubMenu, 0, len(subMenus))
	for i, sub := range subMenus {
		if sub.ID == "" {
			sub.ID = uuid.New().String()
		}
		_, err := m.execQuery(ctx, tx, `
			INSERT INTO sub_menus (id, menu_id, title, url, position)
			VALUES ($1, $2, $3, $4, $5)`,
			sub.ID, menuID, sub.Title, sub.URL, i)
		if err != nil {
			return nil, fmt.Errorf("error inserting sub-menu: %w", err)
		}
		stored = append(stored, sub)
	}
	return stored, nil
}

// attachSubMenus loads the sub-menus of every menu in one query.
func (m *MenuDB) attachSubMenus(ctx context.Context, menus []models.Menu) error {
	if len(menus) == 0 {
		return nil
	}

	ids := make([]string, len(menus))
	index := make(map[string]int, len(menus))
	for i, menu := range menus {
		ids[i] = menu.ID
		index[menu.ID] = i
	}

	rows, err := m.DB.QueryContext(ctx, `
		SELECT id, menu_id, title, url FROM sub_menus
		WHERE menu_id = ANY($1)
		ORDER BY menu_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error retrieving sub-menus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sub models.SubMenu
		var menuID string
		if err := rows.Scan(&sub.ID, &menuID, &sub.Title, &sub.URL); err != nil {
			return fmt.Errorf("error scanning sub-menus: %w", err)
		}
		if i, ok := index[menuID]; ok {
			menus[i].SubMenus = append(menus[i].SubMenus, sub)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMenu(s scanner) (*models.Menu, error) {
	var menu models.Menu
	var icon, url sql.NullString
	var position int
	var createdAt, updatedAt time.Time

	if err := s.Scan(&menu.ID, &menu.Title, &icon, &url, &menu.IsCollapsible, &position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if icon.Valid {
		menu.Icon = &icon.String
	}
	if url.Valid {
		menu.URL = &url.String
	}
	menu.Order = &position
	menu.CreatedAt = models.FormatTime(createdAt)
	menu.UpdatedAt = models.FormatTime(updatedAt)
	return &menu, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
