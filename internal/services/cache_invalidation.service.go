package services

import (
	"context"
	"fmt"

	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"

	"github.com/patrickmn/go-cache"
)

// CacheInvalidationService drops cached copies after writes: the
// in-process vocabulary lists and the valkey copy of single assessments.
type CacheInvalidationService struct {
	db         database.DB
	vocabulary *cache.Cache
	log        logger.Logger
}

func NewCacheInvalidationService(db database.DB, vocabulary *cache.Cache) *CacheInvalidationService {
	return &CacheInvalidationService{
		db:         db,
		vocabulary: vocabulary,
		log:        logger.New("CacheInvalidationService"),
	}
}

func VocabularyCacheKey(kind VocabularyKind) string {
	return "vocabulary:" + string(kind)
}

func AssessmentCacheKey(id int) string {
	return fmt.Sprintf("assessment:%d", id)
}

func (s *CacheInvalidationService) InvalidateVocabulary(kinds ...VocabularyKind) {
	if len(kinds) == 0 {
		kinds = []VocabularyKind{VocabularyProducts, VocabularyEvents}
	}
	for _, kind := range kinds {
		s.vocabulary.Delete(VocabularyCacheKey(kind))
	}
}

func (s *CacheInvalidationService) InvalidateAssessment(ctx context.Context, id int) error {
	if err := database.NewCacheBuilder(s.db.Cache.Assessment, AssessmentCacheKey(id)).
		WithContext(ctx).
		Delete(); err != nil {
		return s.log.Function("InvalidateAssessment").
			Err("failed to remove assessment from cache", err, "assessmentID", id)
	}
	return nil
}
