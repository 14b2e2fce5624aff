package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	t.Run("prefers the test url", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "postgres://test")
		t.Setenv(EnvDatabaseURL, "postgres://main")
		assert.Equal(t, "postgres://test", DatabaseURL())
	})

	t.Run("falls back to DATABASE_URL", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "")
		t.Setenv(EnvDatabaseURL, "postgres://main")
		assert.Equal(t, "postgres://main", DatabaseURL())
	})

	t.Run("empty when unset", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "")
		t.Setenv(EnvDatabaseURL, "")
		assert.Empty(t, DatabaseURL())
	})
}
