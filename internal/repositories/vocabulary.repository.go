package repositories

import (
	"context"
	"strings"

	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VocabularyRepository interface {
	Upsert(ctx context.Context, kind VocabularyKind, names ...string) (int64, error)
	ListAllSorted(ctx context.Context, kind VocabularyKind) ([]string, error)
	Count(ctx context.Context, kind VocabularyKind) (int64, error)
}

type vocabularyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewVocabulary(db database.DB) VocabularyRepository {
	return &vocabularyRepository{
		db:  db,
		log: logger.New("vocabularyRepository"),
	}
}

func (r *vocabularyRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Upsert inserts names that are not yet present and reports how many rows
// were added.
func (r *vocabularyRepository) Upsert(ctx context.Context, kind VocabularyKind, names ...string) (int64, error) {
	log := r.log.Function("Upsert")

	var added int64
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		added, err = upsertVocabularyCount(tx, kind, names)
		return err
	})
	if err != nil {
		return 0, log.Err("failed to upsert vocabulary", err, "kind", kind, "count", len(names))
	}

	return added, nil
}

func (r *vocabularyRepository) ListAllSorted(ctx context.Context, kind VocabularyKind) ([]string, error) {
	log := r.log.Function("ListAllSorted")

	names := []string{}
	if err := r.getDB(ctx).
		Table(kind.TableName()).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, log.Err("failed to list vocabulary", err, "kind", kind)
	}

	return names, nil
}

func (r *vocabularyRepository) Count(ctx context.Context, kind VocabularyKind) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Table(kind.TableName()).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count vocabulary", err, "kind", kind)
	}
	return count, nil
}

func upsertVocabulary(tx *gorm.DB, kind VocabularyKind, names []string) error {
	_, err := upsertVocabularyCount(tx, kind, names)
	return err
}

func upsertVocabularyCount(tx *gorm.DB, kind VocabularyKind, names []string) (int64, error) {
	entries := make([]VocabularyEntry, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, VocabularyEntry{Name: name})
	}

	if len(entries) == 0 {
		return 0, nil
	}

	result := tx.Table(kind.TableName()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entries)
	return result.RowsAffected, result.Error
}
