package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/gonz247/commentgenerator/internal/database"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/services"

	"gorm.io/gorm"
)

const (
	ASSESSMENT_CACHE_EXPIRY = 24 * time.Hour
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentRepository interface {
	GetByID(ctx context.Context, id int) (*Assessment, error)
	Create(ctx context.Context, assessment *Assessment) error
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]*Assessment, error)
	GetByCaseID(ctx context.Context, caseID string) ([]*Assessment, error)
	Count(ctx context.Context) (int64, error)
}

type assessmentRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAssessment(db database.DB) AssessmentRepository {
	return &assessmentRepository{
		db:  db,
		log: logger.New("assessmentRepository"),
	}
}

func (r *assessmentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *assessmentRepository) GetByID(ctx context.Context, id int) (*Assessment, error) {
	log := r.log.Function("GetByID")

	var assessment Assessment
	if found, err := r.getCacheByID(ctx, id, &assessment); err == nil && found {
		return &assessment, nil
	}

	if err := r.getDBByID(ctx, id, &assessment); err != nil {
		return nil, err
	}

	if err := r.addAssessmentToCache(ctx, &assessment); err != nil {
		log.Warn("failed to add assessment to cache", "assessmentID", id, "error", err)
	}

	return &assessment, nil
}

// Create stores the assessment and, in the same transaction, adds every
// product and event term it mentions to the vocabulary tables.
func (r *assessmentRepository) Create(ctx context.Context, assessment *Assessment) error {
	log := r.log.Function("Create")

	if assessment.Timestamp == 0 {
		assessment.Timestamp = time.Now().UnixMilli()
	}
	if assessment.Justifications == nil {
		assessment.Justifications = []Justification{}
	}
	if assessment.SubComments == nil {
		assessment.SubComments = []SubComment{}
	}

	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assessment).Error; err != nil {
			return err
		}
		if err := upsertVocabulary(tx, VocabularyProducts, SplitTerms(assessment.ProductNames)); err != nil {
			return err
		}
		return upsertVocabulary(tx, VocabularyEvents, SplitTerms(assessment.Events))
	})
	if err != nil {
		return log.Err("failed to create assessment", err, "caseID", assessment.CaseID)
	}

	// Inside an outer transaction the row may still roll back and its id be
	// reused, so the cache is left for the first read to fill.
	if _, ok := services.GetTransaction(ctx); ok {
		return nil
	}

	if err := r.addAssessmentToCache(ctx, assessment); err != nil {
		log.Warn("failed to add assessment to cache", "assessmentID", assessment.ID, "error", err)
	}

	return nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Assessment{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete assessment", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return ErrAssessmentNotFound
	}

	return nil
}

func (r *assessmentRepository) GetAll(ctx context.Context) ([]*Assessment, error) {
	log := r.log.Function("GetAll")

	var assessments []*Assessment
	if err := r.getDB(ctx).Order("id ASC").Find(&assessments).Error; err != nil {
		return nil, log.Err("failed to get all assessments", err)
	}

	return assessments, nil
}

func (r *assessmentRepository) GetByCaseID(ctx context.Context, caseID string) ([]*Assessment, error) {
	log := r.log.Function("GetByCaseID")

	var assessments []*Assessment
	if err := r.getDB(ctx).
		Where("case_id = ?", caseID).
		Order("timestamp DESC").
		Find(&assessments).Error; err != nil {
		return nil, log.Err("failed to get assessments by case id", err, "caseID", caseID)
	}

	return assessments, nil
}

func (r *assessmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&Assessment{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count assessments", err)
	}
	return count, nil
}

func (r *assessmentRepository) getCacheByID(ctx context.Context, id int, assessment *Assessment) (bool, error) {
	found, err := database.NewCacheBuilder(r.db.Cache.Assessment, services.AssessmentCacheKey(id)).
		WithContext(ctx).
		Get(assessment)
	if err != nil {
		return false, r.log.Function("getCacheByID").
			Err("failed to get assessment from cache", err, "assessmentID", id)
	}
	return found, nil
}

func (r *assessmentRepository) addAssessmentToCache(ctx context.Context, assessment *Assessment) error {
	if err := database.NewCacheBuilder(r.db.Cache.Assessment, services.AssessmentCacheKey(assessment.ID)).
		WithStruct(assessment).
		WithTTL(ASSESSMENT_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addAssessmentToCache").
			Err("failed to add assessment to cache", err, "assessmentID", assessment.ID)
	}
	return nil
}

func (r *assessmentRepository) getDBByID(ctx context.Context, id int, assessment *Assessment) error {
	log := r.log.Function("getDBByID")

	if err := r.getDB(ctx).First(assessment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return log.Err("failed to get assessment by id", err, "id", id)
	}

	return nil
}
