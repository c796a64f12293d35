package services

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway file-backed SQLite database with the full
// schema migrated. A file under t.TempDir() instead of :memory: keeps the
// schema visible to every pooled connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.AutoMigrate(
		&models.Event{},
		&models.Participant{},
		&models.Preference{},
		&models.MatchingResult{},
		&models.Selection{},
		&models.AssignmentVersion{},
		&models.Assignment{},
	), "failed to migrate test schema")

	return db
}

// doJSON fires one request at a fiber app and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, target string, payload any) (int, map[string]any) {
	t.Helper()

	body := bytes.NewReader(nil)
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}
