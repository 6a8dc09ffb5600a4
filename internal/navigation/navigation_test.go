package navigation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) models.MenuResponse {
	t.Helper()
	var resp models.MenuResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp
}

func TestFromResponse_SingleLink(t *testing.T) {
	view := FromResponse(decode(t, `{"success": true, "data": [{"_id": "1", "title": "Dashboard", "url": "/dashboard", "isCollapsible": false}]}`))

	require.Len(t, view.Entries, 1)
	entry := view.Entries[0]
	assert.Equal(t, "Dashboard", entry.Title)
	assert.Equal(t, "/dashboard", entry.URL)
	assert.False(t, entry.Expandable)
	assert.Empty(t, entry.Children)
}

func TestFromResponse_ExpandableEntry(t *testing.T) {
	view := FromResponse(decode(t, `{"success": true, "data": {"_id": "2", "title": "Settings", "isCollapsible": true, "subMenus": [{"title": "Profile", "url": "/settings/profile"}]}}`))

	require.Len(t, view.Entries, 1)
	entry := view.Entries[0]
	assert.True(t, entry.Expandable)
	assert.Empty(t, entry.URL)
	assert.Equal(t, []Link{{Title: "Profile", URL: "/settings/profile"}}, entry.Children)
}

func TestFromResponse_FailureShowsMessage(t *testing.T) {
	view := FromResponse(decode(t, `{"success": false, "message": "Not found"}`))

	assert.Equal(t, "Not found", view.Message)
	assert.Empty(t, view.Entries)

	var out strings.Builder
	require.NoError(t, view.Write(&out))
	assert.Equal(t, "Not found\n", out.String())
}

func TestView_Write(t *testing.T) {
	view := FromResponse(decode(t, `{"success": true, "data": [
		{"_id": "1", "title": "Dashboard", "url": "/dashboard", "isCollapsible": false},
		{"_id": "2", "title": "Settings", "isCollapsible": true, "subMenus": [{"title": "Profile", "url": "/settings/profile"}]}
	]}`))

	var out strings.Builder
	require.NoError(t, view.Write(&out))
	assert.Equal(t, "  Dashboard  /dashboard\n▸ Settings\n    Profile  /settings/profile\n", out.String())
}
