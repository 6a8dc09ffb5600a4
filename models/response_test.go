package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuResponse_UnmarshalList(t *testing.T) {
	body := `{"success": true, "data": [{"_id": "1", "title": "Dashboard", "url": "/dashboard", "isCollapsible": false}]}`

	var resp MenuResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.IsList())
	require.Len(t, resp.Data.Menus, 1)
	assert.Equal(t, "Dashboard", resp.Data.Menus[0].Title)
	require.NotNil(t, resp.Data.Menus[0].URL)
	assert.Equal(t, "/dashboard", *resp.Data.Menus[0].URL)
	assert.Nil(t, resp.Data.Menus[0].SubMenus)
}

func TestMenuResponse_UnmarshalSingle(t *testing.T) {
	body := `{"success": true, "data": {"_id": "2", "title": "Settings", "isCollapsible": true, "subMenus": [{"title": "Profile", "url": "/settings/profile"}]}}`

	var resp MenuResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	require.NotNil(t, resp.Data)
	assert.False(t, resp.Data.IsList())
	require.NotNil(t, resp.Data.Menu)
	assert.Nil(t, resp.Data.Menu.URL)
	assert.True(t, resp.Data.Menu.IsCollapsible)
	assert.Equal(t, []SubMenu{{Title: "Profile", URL: "/settings/profile"}}, resp.Data.Menu.SubMenus)
	assert.Len(t, resp.Data.All(), 1)
}

func TestMenuResponse_UnmarshalFailureWithoutData(t *testing.T) {
	var resp MenuResponse
	require.NoError(t, json.Unmarshal([]byte(`{"success": false, "message": "Not found"}`), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "Not found", resp.Message)
	assert.Nil(t, resp.Data)
	assert.Empty(t, resp.Data.All())
}

func TestMenuResponse_RejectsMalformedData(t *testing.T) {
	tests := map[string]string{
		"string":         `{"success": true, "data": "menu"}`,
		"number":         `{"success": true, "data": 42}`,
		"mixed array":    `{"success": true, "data": [{"_id": "1", "title": "A", "isCollapsible": false}, 7]}`,
		"bool":           `{"success": true, "data": true}`,
		"null element":   `{"success": true, "data": [null]}`,
		"empty object":   `{"success": true, "data": {}}`,
		"foreign object": `{"success": true, "data": [{"foo": 1}]}`,
		"missing title":  `{"success": true, "data": {"_id": "1", "url": "/x"}}`,
		"missing id":     `{"success": true, "data": [{"title": "A", "url": "/a"}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var resp MenuResponse
			assert.Error(t, json.Unmarshal([]byte(body), &resp))
		})
	}
}

func TestMenuResponse_MarshalEmptyList(t *testing.T) {
	b, err := json.Marshal(MenuResponse{Success: true, Data: MenuList(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": []}`, string(b))
}

func TestMenuResponse_MarshalOmitsAbsentFields(t *testing.T) {
	url := "/dashboard"
	b, err := json.Marshal(MenuResponse{
		Success: true,
		Data:    SingleMenu(Menu{ID: "1", Title: "Dashboard", URL: &url}),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": {"_id": "1", "title": "Dashboard", "url": "/dashboard", "isCollapsible": false}}`, string(b))

	b, err = json.Marshal(MenuResponse{Success: false, Message: "Not found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "message": "Not found"}`, string(b))
}
