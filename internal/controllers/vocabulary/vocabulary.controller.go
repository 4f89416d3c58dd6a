package vocabularyController

import (
	"context"
	"io"
	"strings"

	"github.com/gonz247/commentgenerator/internal/logger"
	"github.com/gonz247/commentgenerator/internal/metrics"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/repositories"
	"github.com/gonz247/commentgenerator/internal/services"
	"github.com/gonz247/commentgenerator/internal/utils"

	"github.com/patrickmn/go-cache"
)

type VocabularyController struct {
	vocabularyRepo           repositories.VocabularyRepository
	transactionService       *services.TransactionService
	cacheInvalidationService *services.CacheInvalidationService
	memo                     *cache.Cache
	metrics                  *metrics.CommentMetrics
	log                      logger.Logger
}

func New(
	vocabularyRepo repositories.VocabularyRepository,
	transactionService *services.TransactionService,
	cacheInvalidationService *services.CacheInvalidationService,
	memo *cache.Cache,
	metrics *metrics.CommentMetrics,
) *VocabularyController {
	return &VocabularyController{
		vocabularyRepo:           vocabularyRepo,
		transactionService:       transactionService,
		cacheInvalidationService: cacheInvalidationService,
		memo:                     memo,
		metrics:                  metrics,
		log:                      logger.New("VocabularyController"),
	}
}

// sorted returns every term of kind in lexicographic order, served from the
// in-process memo when it is warm.
func (vc *VocabularyController) sorted(ctx context.Context, kind VocabularyKind) ([]string, error) {
	key := services.VocabularyCacheKey(kind)
	if cached, found := vc.memo.Get(key); found {
		if names, ok := cached.([]string); ok {
			return names, nil
		}
	}

	names, err := vc.vocabularyRepo.ListAllSorted(ctx, kind)
	if err != nil {
		return nil, vc.log.Function("sorted").Err("failed to list vocabulary", err, "kind", kind)
	}

	vc.memo.Set(key, names, cache.DefaultExpiration)
	return names, nil
}

// Search returns the terms containing q, case-insensitively, in sorted
// order. An empty q returns every term. limit <= 0 means no limit.
func (vc *VocabularyController) Search(ctx context.Context, kind VocabularyKind, q string, limit int) ([]string, error) {
	names, err := vc.sorted(ctx, kind)
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	matches := []string{}
	for _, name := range names {
		if limit > 0 && len(matches) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

func (vc *VocabularyController) Export(ctx context.Context, w io.Writer, kind VocabularyKind, format utils.Format) error {
	log := vc.log.Function("Export")

	names, err := vc.vocabularyRepo.ListAllSorted(ctx, kind)
	if err != nil {
		return log.Err("failed to list vocabulary", err, "kind", kind)
	}

	switch format {
	case utils.FormatJSON:
		err = utils.WriteVocabularyJSON(w, names)
	default:
		err = utils.WriteVocabularyCSV(w, names)
	}
	if err != nil {
		return log.Err("failed to export vocabulary", err, "kind", kind, "format", format)
	}

	vc.metrics.RecordExport(string(kind), string(format))
	return nil
}

// Import inserts every name not yet present. Names that already exist, and
// duplicates within the file, are reported as skipped.
func (vc *VocabularyController) Import(ctx context.Context, r io.Reader, kind VocabularyKind, format utils.Format) (ImportResult, error) {
	log := vc.log.Function("Import")

	var (
		names []string
		err   error
	)
	switch format {
	case utils.FormatJSON:
		names, err = utils.ReadVocabularyJSON(r)
	default:
		names, err = utils.ReadVocabularyCSV(r)
	}
	if err != nil {
		return ImportResult{}, log.Err("failed to parse vocabulary import", err, "kind", kind, "format", format)
	}

	var added int64
	err = vc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		var err error
		added, err = vc.vocabularyRepo.Upsert(txCtx, kind, names...)
		return err
	})
	if err != nil {
		return ImportResult{}, log.Err("failed to import vocabulary", err, "kind", kind)
	}

	vc.cacheInvalidationService.InvalidateVocabulary(kind)

	result := ImportResult{Imported: int(added), Skipped: len(names) - int(added)}
	vc.metrics.RecordVocabularyAdded(string(kind), added)
	vc.metrics.RecordImport(string(kind), string(format), result.Imported, result.Skipped)

	log.Info("vocabulary imported", "kind", kind, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
