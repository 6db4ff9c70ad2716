package service

import (
	"path/filepath"
	"testing"

	"dtportal/database"
	"dtportal/logger"

	"github.com/op/go-logging"
)

// setupDB opens a throwaway sqlite database for one test.
func setupDB(t *testing.T) {
	t.Helper()
	t.Setenv("DTP_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := database.InitDB(dbPath); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
}
