package infra

import (
	"testing"

	"github.com/saveblue/saveblue/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBConnection(t *testing.T) {
	_, err := NewDBConnection(&config.DB{Driver: "postgres"}, "test")
	assert.Error(t, err)

	_, err = NewDBConnection(&config.DB{Driver: "mysql", Url: "x"}, "test")
	assert.ErrorContains(t, err, "unsupported database driver")

	db, err := NewDBConnection(&config.DB{Driver: "sqlite", Url: ":memory:"}, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
