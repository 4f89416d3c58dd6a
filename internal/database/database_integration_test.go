package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDB(t *testing.T) DB {
	t.Helper()

	db, err := New(config.Config{
		DatabaseDbPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestNew_Success(t *testing.T) {
	db := newTestDB(t)

	assert.NotNil(t, db.SQL)
	assert.Nil(t, db.Cache.General)
	assert.Nil(t, db.Cache.Assessment)

	for _, table := range []string{"assessments", "products", "events"} {
		assert.True(t, db.SQL.Migrator().HasTable(table), table)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.Config{DatabaseDbPath: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database path is empty")
}

func TestNew_InMemory(t *testing.T) {
	db, err := New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	// A single shared connection keeps the migrated schema visible.
	assert.True(t, db.SQL.Migrator().HasTable("assessments"))
	assert.True(t, db.SQL.Migrator().HasTable("assessments"))
}

func TestInitializeSQLiteDB_CreatesDirectory(t *testing.T) {
	db := &DB{log: logger.New("test")}

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	err := db.initializeSQLiteDB(&gorm.Config{}, config.Config{DatabaseDbPath: dbPath})
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Migrate())

	ids, err := db.MigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_assessments.sql", "0002_create_vocabulary.sql"}, ids)
}

func TestRollback(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Rollback(1))
	assert.False(t, db.SQL.Migrator().HasTable("products"))
	assert.True(t, db.SQL.Migrator().HasTable("assessments"))

	require.NoError(t, db.Migrate())
	assert.True(t, db.SQL.Migrator().HasTable("products"))
}

func TestClose_WithNilSQL(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.Close())
}

func TestSQLWithContext(t *testing.T) {
	db := newTestDB(t)

	gormDB := db.SQLWithContext(context.Background())
	assert.NotNil(t, gormDB)
	assert.NotEqual(t, db.SQL, gormDB)
}

func TestInitializeCacheDB_MissingConfig(t *testing.T) {
	db := &DB{log: logger.New("test")}

	err := db.initializeCacheDB(config.Config{DatabaseCacheAddress: "", DatabaseCachePort: 6379})
	assert.ErrorContains(t, err, "address or port is empty")

	err = db.initializeCacheDB(config.Config{DatabaseCacheAddress: "localhost", DatabaseCachePort: 0})
	assert.ErrorContains(t, err, "address or port is empty")
}

func TestCacheBuilder_NilClient(t *testing.T) {
	builder := NewCacheBuilder(nil, 42).
		WithStruct(map[string]string{"caseId": "CASE-1"}).
		WithTTL(0).
		WithContext(context.Background())

	assert.Equal(t, "42", builder.key)
	assert.NoError(t, builder.Set())

	var dest map[string]string
	found, err := builder.Get(&dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, builder.Delete())
}

func TestFlushAllCaches_NoClients(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.FlushAllCaches())
}
