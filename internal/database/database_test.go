package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiforge/internal/models"
)

func TestInit_MigratesSettingsTables(t *testing.T) {
	db, err := Init(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.AppSettings{}))
	assert.True(t, db.Migrator().HasTable(&models.ModelSetting{}))
}

func TestInit_InMemory(t *testing.T) {
	db, err := Init(Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Create(&models.ModelSetting{ModelKey: "anthropic|claude", Provider: "anthropic", Enabled: true}).Error)

	var count int64
	require.NoError(t, db.Model(&models.ModelSetting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
