package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idcard-hub/idcard-menu-services/models"
)

// Column limits of the menus and sub_menus tables.
const (
	MaxIDLength    = 64
	MaxTitleLength = 255
	MaxIconLength  = 255
	MaxURLLength   = 2048
)

// ReservedMenuID cannot be used as a menu id; it names the reorder route.
const ReservedMenuID = "order"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidationError reports a menu that breaks the menu contract.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// NormalizeMenu trims the text fields of a menu and drops empty optional ones.
func NormalizeMenu(menu models.Menu) models.Menu {
	menu.ID = strings.TrimSpace(menu.ID)
	menu.Title = strings.TrimSpace(menu.Title)
	menu.Icon = trimOptional(menu.Icon)
	menu.URL = trimOptional(menu.URL)

	if len(menu.SubMenus) == 0 {
		menu.SubMenus = nil
	} else {
		subMenus := make([]models.SubMenu, len(menu.SubMenus))
		for i, sub := range menu.SubMenus {
			subMenus[i] = models.SubMenu{
				ID:    strings.TrimSpace(sub.ID),
				Title: strings.TrimSpace(sub.Title),
				URL:   strings.TrimSpace(sub.URL),
			}
		}
		menu.SubMenus = subMenus
	}
	return menu
}

// ValidateMenu checks a normalized menu. A collapsible menu has no url and at
// least one sub-menu; any other menu has a url and no sub-menus.
func ValidateMenu(menu models.Menu) error {
	if menu.Title == "" {
		return invalid("title is required")
	}

	if menu.ID != "" {
		if err := checkID("_id", menu.ID); err != nil {
			return err
		}
		if menu.ID == ReservedMenuID {
			return invalid(fmt.Sprintf("_id %q is reserved", ReservedMenuID))
		}
	}
	if err := checkText("title", menu.Title, MaxTitleLength); err != nil {
		return err
	}
	if menu.Icon != nil {
		if err := checkText("icon", *menu.Icon, MaxIconLength); err != nil {
			return err
		}
	}
	if menu.URL != nil {
		if err := checkText("url", *menu.URL, MaxURLLength); err != nil {
			return err
		}
	}
	if menu.Order != nil && (*menu.Order < math.MinInt32 || *menu.Order > math.MaxInt32) {
		return invalid("order is out of range")
	}

	if menu.IsCollapsible {
		if menu.URL != nil {
			return invalid("collapsible menu must not have a url")
		}
		if len(menu.SubMenus) == 0 {
			return invalid("collapsible menu requires at least one sub-menu")
		}
	} else {
		if menu.URL == nil {
			return invalid("url is required for a non-collapsible menu")
		}
		if len(menu.SubMenus) > 0 {
			return invalid("non-collapsible menu must not have sub-menus")
		}
	}

	subIDs := make(map[string]bool, len(menu.SubMenus))
	for i, sub := range menu.SubMenus {
		if sub.Title == "" {
			return invalid(fmt.Sprintf("sub-menu %d: title is required", i))
		}
		if sub.URL == "" {
			return invalid(fmt.Sprintf("sub-menu %d: url is required", i))
		}
		if err := checkText(fmt.Sprintf("sub-menu %d: title", i), sub.Title, MaxTitleLength); err != nil {
			return err
		}
		if err := checkText(fmt.Sprintf("sub-menu %d: url", i), sub.URL, MaxURLLength); err != nil {
			return err
		}
		if sub.ID != "" {
			if err := checkID(fmt.Sprintf("sub-menu %d: _id", i), sub.ID); err != nil {
				return err
			}
			if subIDs[sub.ID] {
				return invalid(fmt.Sprintf("sub-menu %d: duplicate _id %q", i, sub.ID))
			}
			subIDs[sub.ID] = true
		}
	}
	return nil
}

func checkID(field, id string) error {
	if !idPattern.MatchString(id) {
		return invalid(fmt.Sprintf("%s must be 1-%d letters, digits, '-' or '_'", field, MaxIDLength))
	}
	return nil
}

func checkText(field, value string, limit int) error {
	if strings.ContainsRune(value, 0) {
		return invalid(fmt.Sprintf("%s must not contain NUL characters", field))
	}
	if !utf8.ValidString(value) {
		return invalid(fmt.Sprintf("%s is not valid UTF-8", field))
	}
	if utf8.RuneCountInString(value) > limit {
		return invalid(fmt.Sprintf("%s exceeds %d characters", field, limit))
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
