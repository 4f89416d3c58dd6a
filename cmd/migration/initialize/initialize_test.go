package initialize

import (
	"path/filepath"
	"testing"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTables(t *testing.T) {
	db, err := database.New(config.Config{DatabaseDbPath: filepath.Join(t.TempDir(), "init.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := InitializeTables(db, logger.New("initialize_test"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_assessments.sql", "0002_create_vocabulary.sql"}, applied)
}
