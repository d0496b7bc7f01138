package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"profiles", "seasons", "season_players", "matches", "match_validations", "metrics"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_SkipMigrations(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", Options{SkipMigrations: true})
	require.NoError(t, err)
	defer teardown()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='matches'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInitDB_SingleActiveSeason(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec("INSERT INTO seasons (id, name, start_date, is_active, created_at) VALUES ('s1', 'One', 0, 1, 0)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO seasons (id, name, start_date, is_active, created_at) VALUES ('s2', 'Two', 0, 1, 0)")
	assert.Error(t, err, "a second active season must be refused")
}
