package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidMenuData is returned when a response payload is neither a menu
// object nor an array of menus.
var ErrInvalidMenuData = errors.New("data must be a menu object or an array of menus")

// MenuResponse is the envelope returned by every menu endpoint.
type MenuResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *MenuData `json:"data,omitempty"`
}

// MenuData holds either a single menu (fetch-one) or a list (fetch-all).
type MenuData struct {
	Menu  *Menu
	Menus []Menu
	list  bool
}

// SingleMenu wraps one menu as a response payload.
func SingleMenu(menu Menu) *MenuData {
	return &MenuData{Menu: &menu}
}

// MenuList wraps a list of menus as a response payload.
func MenuList(menus []Menu) *MenuData {
	if menus == nil {
		menus = []Menu{}
	}
	return &MenuData{Menus: menus, list: true}
}

// IsList reports whether the payload is a sequence of menus.
func (d *MenuData) IsList() bool {
	return d != nil && d.list
}

// All returns the payload as a slice regardless of its shape.
func (d *MenuData) All() []Menu {
	if d == nil {
		return nil
	}
	if d.list {
		return d.Menus
	}
	if d.Menu == nil {
		return nil
	}
	return []Menu{*d.Menu}
}

func (d MenuData) MarshalJSON() ([]byte, error) {
	if d.list {
		menus := d.Menus
		if menus == nil {
			menus = []Menu{}
		}
		return json.Marshal(menus)
	}
	if d.Menu == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Menu)
}

func (d *MenuData) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return ErrInvalidMenuData
	}

	switch trimmed[0] {
	case '{':
		menu, err := decodeMenu(trimmed)
		if err != nil {
			return err
		}
		*d = MenuData{Menu: &menu}
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return err
		}
		menus := make([]Menu, 0, len(raws))
		for _, raw := range raws {
			menu, err := decodeMenu(raw)
			if err != nil {
				return err
			}
			menus = append(menus, menu)
		}
		*d = MenuData{Menus: menus, list: true}
	case 'n':
		if string(trimmed) != "null" {
			return ErrInvalidMenuData
		}
		*d = MenuData{}
	default:
		return ErrInvalidMenuData
	}
	return nil
}

// decodeMenu parses one menu object. Anything that is not an object carrying
// an id and a title is rejected.
func decodeMenu(raw []byte) (Menu, error) {
	var menu Menu
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return menu, ErrInvalidMenuData
	}
	if err := json.Unmarshal(raw, &menu); err != nil {
		return menu, err
	}
	if menu.ID == "" || menu.Title == "" {
		return menu, ErrInvalidMenuData
	}
	return menu, nil
}
