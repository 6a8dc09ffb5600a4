package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/idcard-hub/idcard-menu-services/db"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	MsgUnauthorized    = "Unauthorized"
	MsgForbidden       = "Forbidden: menu administrators only"
	MsgInvalidPayload  = "Invalid request payload"
	MsgMenuNotFound    = "Menu not found"
	MsgMenuDeleted     = "Menu deleted"
	MsgInternalError   = "Internal server error"
	MsgInvalidMenuData = "Invalid menu data"
)

// subMenuKey is the primary key constraint of the sub_menus table.
const subMenuKey = "sub_menus_pkey"

// dataException is the Postgres error class for values a column cannot hold.
const dataException = "22"

// WriteResponse writes a MenuResponse envelope with the given status code.
func WriteResponse(w http.ResponseWriter, statusCode int, response models.MenuResponse, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteFailure writes an unsuccessful envelope carrying message.
func WriteFailure(w http.ResponseWriter, statusCode int, message string) {
	WriteResponse(w, statusCode, models.MenuResponse{Success: false, Message: message})
}

// HandleErrResponse maps an error from the service or the database onto a
// status code and an unsuccessful envelope.
func HandleErrResponse(w http.ResponseWriter, err error) {
	statusCode, message := errorStatus(err)
	WriteFailure(w, statusCode, message)
}

func errorStatus(err error) (int, string) {
	var vErr *ValidationError
	var pqErr *pq.Error

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.Is(err, db.ErrMenuNotFound):
		return http.StatusNotFound, MsgMenuNotFound
	case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == subMenuKey:
		return http.StatusConflict, fmt.Sprintf("Sub-menu id already in use (%s)", pqErr.Code.Name())
	case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
		return http.StatusConflict, fmt.Sprintf("Menu already exists (%s)", pqErr.Code.Name())
	case errors.As(err, &pqErr) && pqErr.Code.Class() == dataException:
		return http.StatusBadRequest, fmt.Sprintf("%s (%s)", MsgInvalidMenuData, pqErr.Code.Name())
	case errors.As(err, &pqErr):
		return http.StatusInternalServerError, fmt.Sprintf("%s (%s)", MsgInternalError, pqErr.Code.Name())
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}
