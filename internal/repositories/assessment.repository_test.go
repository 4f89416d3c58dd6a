package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/database"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/services"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDbPath: filepath.Join(t.TempDir(), "repositories.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func sampleAssessment(caseID string, timestamp int64) *Assessment {
	return &Assessment{
		CaseID:           caseID,
		CaseType:         CaseTypePMS,
		IsLicensePartner: true,
		FollowUpConsent:  true,
		ProductNames:     "DrugX, DrugY",
		Events:           "fever, rash",
		Relatedness:      RelatednessPositive,
		Justifications:   []Justification{JustificationTemporalRelationship},
		AdditionalNotes:  "note",
		GeneratedComment: "Similares considers that there is a possibility that the fever and rash related to the DrugX and DrugY.",
		Timestamp:        timestamp,
		SubComments: []SubComment{{
			ProductNames:   "DrugX, DrugY",
			Events:         "fever, rash",
			Relatedness:    RelatednessPositive,
			Justifications: []Justification{JustificationTemporalRelationship},
		}},
	}
}

func TestAssessmentRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	ctx := context.Background()

	assessment := sampleAssessment("CASE-001", 1700000000000)
	require.NoError(t, repo.Create(ctx, assessment))
	assert.Greater(t, assessment.ID, 0)

	stored, err := repo.GetByID(ctx, assessment.ID)
	require.NoError(t, err)

	diff := cmp.Diff(assessment, stored,
		cmpopts.IgnoreFields(BaseModel{}, "CreatedAt", "UpdatedAt", "DeletedAt"))
	assert.Empty(t, diff)
}

func TestAssessmentRepository_IDsAreMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	ctx := context.Background()

	first := sampleAssessment("CASE-001", 1)
	second := sampleAssessment("CASE-002", 2)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Greater(t, second.ID, first.ID)
}

func TestAssessmentRepository_CreateAssignsTimestamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)

	assessment := sampleAssessment("CASE-001", 0)
	assessment.Justifications = nil
	assessment.SubComments = nil
	require.NoError(t, repo.Create(context.Background(), assessment))

	assert.NotZero(t, assessment.Timestamp)

	stored, err := repo.GetByID(context.Background(), assessment.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Justifications)
	assert.Empty(t, stored.SubComments)
}

func TestAssessmentRepository_CreateFeedsVocabulary(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	vocabulary := NewVocabulary(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleAssessment("CASE-001", 1)))

	second := sampleAssessment("CASE-002", 2)
	second.ProductNames = "DrugX, DrugZ"
	second.Events = "fever,,headache"
	require.NoError(t, repo.Create(ctx, second))

	products, err := vocabulary.ListAllSorted(ctx, VocabularyProducts)
	require.NoError(t, err)
	assert.Equal(t, []string{"DrugX", "DrugY", "DrugZ"}, products)

	events, err := vocabulary.ListAllSorted(ctx, VocabularyEvents)
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "headache", "rash"}, events)
}

func TestAssessmentRepository_GetAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	ctx := context.Background()

	for i, caseID := range []string{"CASE-001", "CASE-002", "CASE-001"} {
		require.NoError(t, repo.Create(ctx, sampleAssessment(caseID, int64(i+1))))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "CASE-001", all[0].CaseID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	byCase, err := repo.GetByCaseID(ctx, "CASE-001")
	require.NoError(t, err)
	require.Len(t, byCase, 2)
	assert.Equal(t, int64(3), byCase[0].Timestamp)
}

func TestAssessmentRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	ctx := context.Background()

	assessment := sampleAssessment("CASE-001", 1)
	require.NoError(t, repo.Create(ctx, assessment))

	require.NoError(t, repo.Delete(ctx, assessment.ID))

	_, err := repo.GetByID(ctx, assessment.ID)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, assessment.ID), ErrAssessmentNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	products, err := NewVocabulary(db).ListAllSorted(ctx, VocabularyProducts)
	require.NoError(t, err)
	assert.Equal(t, []string{"DrugX", "DrugY"}, products, "vocabulary outlives the assessment")
}

func TestAssessmentRepository_GetByID_NotFound(t *testing.T) {
	repo := NewAssessment(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentRepository_CreateInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessment(db)
	transactions := services.NewTransactionService(db)
	ctx := context.Background()

	err := transactions.Execute(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, sampleAssessment("CASE-001", 1)); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "rolled back with the outer transaction")

	products, err := NewVocabulary(db).ListAllSorted(ctx, VocabularyProducts)
	require.NoError(t, err)
	assert.Empty(t, products)
}

// untouchedCache panics on any call, proving the cache was never consulted.
type untouchedCache struct {
	valkey.Client
}

func TestAssessmentRepository_CreateInsideTransactionSkipsCache(t *testing.T) {
	db := newTestDB(t)
	db.Cache.Assessment = untouchedCache{}
	repo := NewAssessment(db)
	transactions := services.NewTransactionService(db)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		err := transactions.Execute(ctx, func(txCtx context.Context) error {
			if err := repo.Create(txCtx, sampleAssessment("CASE-001", 1)); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
	})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
