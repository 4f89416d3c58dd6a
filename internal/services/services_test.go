package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/database"
	. "github.com/gonz247/commentgenerator/internal/models"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDbPath: filepath.Join(t.TempDir(), "services.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func countVocabulary(t *testing.T, db database.DB) int64 {
	var count int64
	require.NoError(t, db.SQL.Table(VocabularyProducts.TableName()).Count(&count).Error)
	return count
}

func TestTransactionService_Commit(t *testing.T) {
	db := newTestDB(t)
	service := NewTransactionService(db)

	err := service.Execute(context.Background(), func(txCtx context.Context) error {
		tx, ok := GetTransaction(txCtx)
		require.True(t, ok)
		return tx.Exec("INSERT INTO "+VocabularyProducts.TableName()+" (name) VALUES (?)", "DrugX").Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countVocabulary(t, db))
}

func TestTransactionService_Rollback(t *testing.T) {
	db := newTestDB(t)
	service := NewTransactionService(db)
	boom := errors.New("boom")

	err := service.Execute(context.Background(), func(txCtx context.Context) error {
		tx, _ := GetTransaction(txCtx)
		require.NoError(t, tx.Exec("INSERT INTO "+VocabularyProducts.TableName()+" (name) VALUES (?)", "DrugX").Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countVocabulary(t, db))
}

func TestTransactionService_Nested(t *testing.T) {
	db := newTestDB(t)
	service := NewTransactionService(db)

	err := service.Execute(context.Background(), func(outer context.Context) error {
		outerTx, _ := GetTransaction(outer)
		return service.Execute(outer, func(inner context.Context) error {
			innerTx, ok := GetTransaction(inner)
			assert.True(t, ok)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	assert.NoError(t, err)
}

func TestGetTransaction_Missing(t *testing.T) {
	_, ok := GetTransaction(context.Background())
	assert.False(t, ok)
}

func TestCacheInvalidationService(t *testing.T) {
	db := newTestDB(t)
	memo := cache.New(time.Minute, time.Minute)
	service := NewCacheInvalidationService(db, memo)

	memo.Set(VocabularyCacheKey(VocabularyProducts), []string{"DrugX"}, cache.DefaultExpiration)
	memo.Set(VocabularyCacheKey(VocabularyEvents), []string{"rash"}, cache.DefaultExpiration)

	service.InvalidateVocabulary(VocabularyEvents)
	_, found := memo.Get(VocabularyCacheKey(VocabularyEvents))
	assert.False(t, found)
	_, found = memo.Get(VocabularyCacheKey(VocabularyProducts))
	assert.True(t, found)

	service.InvalidateVocabulary()
	assert.Zero(t, memo.ItemCount())

	assert.NoError(t, service.InvalidateAssessment(context.Background(), 7))
	assert.Equal(t, "assessment:7", AssessmentCacheKey(7))
}
