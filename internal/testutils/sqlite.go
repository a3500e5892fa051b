package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/storage/sqlite"
)

// CreateTestSQLiteDB opens a migrated database in a temp dir that is removed
// when the test ends
func CreateTestSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "sheet.db"))
	require.NoError(t, err, "failed to open sqlite")
	t.Cleanup(func() { _ = db.Close() })

	return db
}
