package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/idcard-hub/idcard-menu-services/api/middleware"
	"github.com/idcard-hub/idcard-menu-services/internal/authn"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog"
)

// GetMenusService retrieves every menu in sidebar order.
func (svc *MenuService) GetMenusService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	if _, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims); !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteFailure(w, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	menus, err := svc.DB.GetMenus(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve menus from database")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Int("menu_count", len(menus)).Msg("Successfully retrieved menus")
	WriteResponse(w, http.StatusOK, models.MenuResponse{Success: true, Data: models.MenuList(menus)})
}

// GetMenuService retrieves a single menu by the id in the URL path.
func (svc *MenuService) GetMenuService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	if _, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims); !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteFailure(w, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	menuID := mux.Vars(r)["menu-id"]

	menu, err := svc.DB.GetMenu(r.Context(), menuID)
	if err != nil {
		logger.Error().Err(err).Str("menu_id", menuID).Msg("Database error retrieving menu")
		HandleErrResponse(w, err)
		return
	}

	if menu == nil {
		logger.Warn().Str("menu_id", menuID).Msg("Menu not found")
		WriteFailure(w, http.StatusNotFound, MsgMenuNotFound)
		return
	}

	logger.Info().Str("menu_id", menu.ID).Msg("Successfully retrieved menu")
	WriteResponse(w, http.StatusOK, models.MenuResponse{Success: true, Data: models.SingleMenu(*menu)})
}

// CreateMenuService creates a new menu from the request body.
func (svc *MenuService) CreateMenuService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload models.Menu
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteFailure(w, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	payload = NormalizeMenu(payload)
	if err := ValidateMenu(payload); err != nil {
		logger.Warn().Err(err).Msg("Menu failed validation")
		HandleErrResponse(w, err)
		return
	}

	menu, err := svc.DB.CreateMenu(r.Context(), &payload)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create menu in database")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Str("menu_id", menu.ID).Msg("Menu created successfully")
	svc.publish(logger, models.MenuEventUpsert, menu.ID, menu)

	var location = fmt.Sprintf("%s/%s", strings.TrimRight(r.URL.Path, "/"), url.PathEscape(menu.ID))
	WriteResponse(w, http.StatusCreated, models.MenuResponse{Success: true, Data: models.SingleMenu(*menu)}, location)
}

// UpdateMenuService replaces the menu named in the URL path.
func (svc *MenuService) UpdateMenuService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	menuID := mux.Vars(r)["menu-id"]

	var payload models.Menu
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid update request payload")
		WriteFailure(w, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	payload = NormalizeMenu(payload)
	if err := ValidateMenu(payload); err != nil {
		logger.Warn().Err(err).Str("menu_id", menuID).Msg("Menu failed validation")
		HandleErrResponse(w, err)
		return
	}

	menu, err := svc.DB.UpdateMenu(r.Context(), menuID, payload)
	if err != nil {
		logger.Error().Err(err).Str("menu_id", menuID).Msg("Database error updating menu")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Str("menu_id", menu.ID).Msg("Menu updated successfully")
	svc.publish(logger, models.MenuEventUpsert, menu.ID, menu)

	WriteResponse(w, http.StatusOK, models.MenuResponse{Success: true, Data: models.SingleMenu(*menu)})
}

// DeleteMenuService deletes the menu named in the URL path.
func (svc *MenuService) DeleteMenuService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	menuID := mux.Vars(r)["menu-id"]

	if err := svc.DB.DeleteMenu(r.Context(), menuID); err != nil {
		logger.Error().Err(err).Str("menu_id", menuID).Msg("Database error deleting menu")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Str("menu_id", menuID).Msg("Menu deleted successfully")
	svc.publish(logger, models.MenuEventDelete, menuID, nil)

	WriteResponse(w, http.StatusOK, models.MenuResponse{Success: true, Message: MsgMenuDeleted})
}

// ReorderMenusService assigns new sidebar positions and returns the
// reordered list.
func (svc *MenuService) ReorderMenusService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var orders []models.MenuOrder
	if err := json.NewDecoder(r.Body).Decode(&orders); err != nil {
		logger.Warn().Err(err).Msg("Invalid reorder request payload")
		WriteFailure(w, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	if err := svc.DB.ReorderMenus(r.Context(), orders); err != nil {
		logger.Error().Err(err).Msg("Database error reordering menus")
		HandleErrResponse(w, err)
		return
	}

	menus, err := svc.DB.GetMenus(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve menus from database")
		HandleErrResponse(w, err)
		return
	}

	reordered := make(map[string]bool, len(orders))
	for _, entry := range orders {
		reordered[entry.ID] = true
	}
	for i := range menus {
		if reordered[menus[i].ID] {
			svc.publish(logger, models.MenuEventUpsert, menus[i].ID, &menus[i])
		}
	}

	logger.Info().Int("reordered", len(orders)).Msg("Menus reordered successfully")
	WriteResponse(w, http.StatusOK, models.MenuResponse{Success: true, Data: models.MenuList(menus)})
}

// publish notifies subscribers of a menu change. Failures are logged only.
func (svc *MenuService) publish(logger *zerolog.Logger, action, menuID string, menu *models.Menu) {
	if svc.Publisher == nil {
		return
	}

	event := models.MenuEvent{
		Action:    action,
		MenuID:    menuID,
		Menu:      menu,
		Timestamp: time.Now().UTC().Unix(),
	}
	if err := svc.Publisher.Publish(event); err != nil {
		logger.Warn().Err(err).Str("menu_id", menuID).Str("action", action).Msg("Failed to publish menu event")
	}
}
