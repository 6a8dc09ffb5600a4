package handlers

import (
	"net/http"

	"github.com/idcard-hub/idcard-menu-services/api/middleware"
	"github.com/idcard-hub/idcard-menu-services/api/services"
	"github.com/idcard-hub/idcard-menu-services/internal/authn"
	"github.com/rs/zerolog"
)

// @Summary Get menus
// @Description Retrieve every sidebar menu, in order, with its sub-menus.
// @Tags Menus
// @Produce json
// @Success 200 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus [get]
func GetMenus(svc *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetMenusService(w, r)
	}
}

// @Summary Get a menu
// @Description Retrieve a single menu by its id.
// @Tags Menus
// @Produce json
// @Param menu-id path string true "Menu ID"
// @Success 200 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 404 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus/{menu-id} [get]
func GetMenu(svc *services.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.GetMenuService(w, r)
	}
}

// @Summary Create a menu
// @Description Create a menu. A collapsible menu needs sub-menus and no url; any other menu needs a url.
// @Tags Menus
// @Accept json
// @Produce json
// @Param menu body models.Menu true "Menu"
// @Success 201 {object} models.MenuResponse
// @Failure 400 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 403 {object} models.MenuResponse
// @Failure 409 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus [post]
func CreateMenu(svc *services.MenuService) http.HandlerFunc {
	return adminOnly(svc, svc.CreateMenuService)
}

// @Summary Update a menu
// @Description Replace a menu and its sub-menus.
// @Tags Menus
// @Accept json
// @Produce json
// @Param menu-id path string true "Menu ID"
// @Param menu body models.Menu true "Menu"
// @Success 200 {object} models.MenuResponse
// @Failure 400 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 403 {object} models.MenuResponse
// @Failure 404 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus/{menu-id} [put]
func UpdateMenu(svc *services.MenuService) http.HandlerFunc {
	return adminOnly(svc, svc.UpdateMenuService)
}

// @Summary Delete a menu
// @Tags Menus
// @Produce json
// @Param menu-id path string true "Menu ID"
// @Success 200 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 403 {object} models.MenuResponse
// @Failure 404 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus/{menu-id} [delete]
func DeleteMenu(svc *services.MenuService) http.HandlerFunc {
	return adminOnly(svc, svc.DeleteMenuService)
}

// @Summary Reorder menus
// @Description Assign sidebar positions. Unknown ids are ignored.
// @Tags Menus
// @Accept json
// @Produce json
// @Param order body []models.MenuOrder true "Menu positions"
// @Success 200 {object} models.MenuResponse
// @Failure 400 {object} models.MenuResponse
// @Failure 401 {object} models.MenuResponse
// @Failure 403 {object} models.MenuResponse
// @Failure 500 {object} models.MenuResponse
// @Router /menus/order [put]
func ReorderMenus(svc *services.MenuService) http.HandlerFunc {
	return adminOnly(svc, svc.ReorderMenusService)
}

// adminOnly rejects callers without the configured admin role.
func adminOnly(svc *services.MenuService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
		if !ok {
			logger.Warn().Msg("Unauthorized request: missing claims")
			services.WriteFailure(w, http.StatusUnauthorized, services.MsgUnauthorized)
			return
		}

		if !claims.HasRole(svc.Config.Auth.AdminRole) {
			logger.Warn().Str("requested_by", claims.Username).Msg("Access denied: user is not a menu administrator")
			services.WriteFailure(w, http.StatusForbidden, services.MsgForbidden)
			return
		}

		next(w, r)
	}
}
