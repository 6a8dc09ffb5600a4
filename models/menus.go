package models

import "time"

// TimeFormat is the ISO-8601 layout used for createdAt and updatedAt.
const TimeFormat string = "2006-01-02T15:04:05.000Z"

// SubMenu is a leaf navigation link nested under a collapsible menu.
type SubMenu struct {
	ID    string `json:"_id,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Menu is a top-level navigation entry, optionally expandable into sub-menus.
type Menu struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Icon          *string   `json:"icon,omitempty"`
	URL           *string   `json:"url,omitempty"`
	IsCollapsible bool      `json:"isCollapsible"`
	SubMenus      []SubMenu `json:"subMenus,omitempty"`
	Order         *int      `json:"order,omitempty"`
	CreatedAt     *string   `json:"createdAt,omitempty"`
	UpdatedAt     *string   `json:"updatedAt,omitempty"`
}

// MenuOrder assigns a sidebar position to a menu.
type MenuOrder struct {
	ID    string `json:"_id"`
	Order int    `json:"order"`
}

// FormatTime renders t in TimeFormat after converting it to UTC.
func FormatTime(t time.Time) *string {
	s := t.UTC().Format(TimeFormat)
	return &s
}
