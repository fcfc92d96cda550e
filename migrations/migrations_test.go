package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, versions)
}

func TestMigrationsHaveUpAndDown(t *testing.T) {
	entries, err := files.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		body, err := files.ReadFile(entry.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", entry.Name())
		assert.Contains(t, string(body), "-- +goose Down", entry.Name())
	}
}

func TestNotificationDedupeIndexIsPartial(t *testing.T) {
	body, err := files.ReadFile("00003_create_in_app_notifications.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "WHERE dedupe_key IS NOT NULL"))
}
