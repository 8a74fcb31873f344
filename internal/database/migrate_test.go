package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "001_initial.up.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestInitialMigrationCreatesRequiredTables(t *testing.T) {
	body, err := migrationFS.ReadFile("migrations/001_initial.up.sql")
	require.NoError(t, err)
	sql := string(body)

	for _, table := range requiredTables {
		assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}

	for _, role := range []string{"'admin'", "'editor'", "'viewer'", "'user'"} {
		assert.Contains(t, sql, role)
	}
}

func TestUserIdentityIsUniqueIgnoringCase(t *testing.T) {
	body, err := migrationFS.ReadFile("migrations/002_users_case_insensitive.up.sql")
	require.NoError(t, err)
	sql := string(body)

	assert.Contains(t, sql, "ON users (lower(username))")
	assert.Contains(t, sql, "ON users (lower(email))")
	assert.Contains(t, sql, "CREATE UNIQUE INDEX")
}
