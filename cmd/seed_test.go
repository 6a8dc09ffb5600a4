package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
menus:
  - title: Dashboard
    icon: home
    url: /dashboard
  - title: Cards
    isCollapsible: true
    order: 5
    subMenus:
      - title: Issue
        url: /cards/issue
      - title: Revoke
        url: /cards/revoke
`), 0o600))

	menus, err := loadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, menus, 2)

	assert.Equal(t, "Dashboard", menus[0].Title)
	require.NotNil(t, menus[0].URL)
	assert.Equal(t, "/dashboard", *menus[0].URL)
	assert.Equal(t, "home", *menus[0].Icon)
	assert.Nil(t, menus[0].Order)
	assert.Empty(t, menus[0].SubMenus)

	assert.True(t, menus[1].IsCollapsible)
	assert.Nil(t, menus[1].URL)
	assert.Equal(t, 5, *menus[1].Order)
	require.Len(t, menus[1].SubMenus, 2)
	assert.Equal(t, "/cards/revoke", menus[1].SubMenus[1].URL)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := loadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menus: [unclosed"), 0o600))
	_, err = loadSeedFile(path)
	assert.Error(t, err)
}
