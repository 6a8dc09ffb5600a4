package menuclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMenus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menus", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success": true, "data": [{"_id": "1", "title": "Dashboard", "url": "/dashboard", "isCollapsible": false}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", "test-token")
	resp, err := client.ListMenus(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.True(t, resp.Data.IsList())
	assert.Equal(t, "Dashboard", resp.Data.Menus[0].Title)
}

func TestGetMenu_NotFoundEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menus/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "message": "Menu not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", "test-token")
	resp, err := client.GetMenu(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Menu not found", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestGetMenu_PlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "authorization header missing", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", "")
	_, err := client.GetMenu(context.Background(), "1")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestListMenus_MalformedData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": "not-a-menu"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "t").ListMenus(context.Background())
	assert.Error(t, err)
}
