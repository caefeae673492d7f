package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habedi/q2launch/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB(t *testing.T) {
	tempDir := t.TempDir()
	db.Path = filepath.Join(tempDir, "nested", "launcher.db")
	err := db.InitDB()
	require.NoError(t, err, "InitDB should not return an error")

	_, statErr := os.Stat(db.Path)
	assert.NoError(t, statErr, "Database file should exist")
	assert.NotNil(t, db.GetDB())

	assert.NoError(t, db.CloseDB(), "CloseDB should not return an error")
}

func TestConfigurePath_HomeEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(db.HomeEnv, home)

	db.ConfigurePath()
	assert.Equal(t, filepath.Join(home, "launcher.db"), db.Path)
}

func TestConfigurePath_XdgDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv(db.HomeEnv, "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	db.ConfigurePath()
	assert.Equal(t, filepath.Join(dataHome, "q2launch", "launcher.db"), db.Path)
}
