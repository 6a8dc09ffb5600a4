package models

// Actions carried by a MenuEvent.
const (
	MenuEventUpsert = "upsert"
	MenuEventDelete = "delete"
)

// MenuEvent is the message exchanged on the menu event topics.
type MenuEvent struct {
	Action    string `json:"action"`
	MenuID    string `json:"menuId"`
	Menu      *Menu  `json:"menu,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
