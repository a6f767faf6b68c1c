package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestInitCreatesTaskTables(t *testing.T) {
	raw, err := fs.ReadFile(files, "sql/000001_init.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"tasks", "status_changes", "daily_logs", "comments", "activity_logs", "scheduled_rules"} {
		assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
