package vocabularyController

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/database"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/repositories"
	"github.com/gonz247/commentgenerator/internal/services"
	"github.com/gonz247/commentgenerator/internal/utils"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	controller *VocabularyController
	repo       repositories.VocabularyRepository
	memo       *gocache.Cache
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDbPath: filepath.Join(t.TempDir(), "vocabulary.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	memo := gocache.New(time.Minute, time.Minute)
	repo := repositories.NewVocabulary(db)

	return testEnv{
		controller: New(
			repo,
			services.NewTransactionService(db),
			services.NewCacheInvalidationService(db, memo),
			memo,
			nil,
		),
		repo: repo,
		memo: memo,
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.repo.Upsert(ctx, VocabularyProducts, "Paracetamol", "aspirin", "Ibuprofen", "Paroxetine")
	require.NoError(t, err)

	tests := []struct {
		q     string
		limit int
		want  []string
	}{
		{q: "", want: []string{"Ibuprofen", "Paracetamol", "Paroxetine", "aspirin"}},
		{q: "PAR", want: []string{"Paracetamol", "Paroxetine"}},
		{q: "par", limit: 1, want: []string{"Paracetamol"}},
		{q: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got, err := env.controller.Search(ctx, VocabularyProducts, tt.q, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_UsesMemo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.repo.Upsert(ctx, VocabularyEvents, "fever")
	require.NoError(t, err)

	got, err := env.controller.Search(ctx, VocabularyEvents, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fever"}, got)

	_, err = env.repo.Upsert(ctx, VocabularyEvents, "rash")
	require.NoError(t, err)

	got, err = env.controller.Search(ctx, VocabularyEvents, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fever"}, got, "memo is served until invalidated")

	env.memo.Delete(services.VocabularyCacheKey(VocabularyEvents))

	got, err = env.controller.Search(ctx, VocabularyEvents, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "rash"}, got)
}

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.repo.Upsert(ctx, VocabularyProducts, "DrugA")
	require.NoError(t, err)
	_, err = env.controller.Search(ctx, VocabularyProducts, "", 0)
	require.NoError(t, err)

	result, err := env.controller.Import(ctx, strings.NewReader("name\nDrugA\nDrugB\nDrugB\nDrugC\n"), VocabularyProducts, utils.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Skipped: 2}, result)

	got, err := env.controller.Search(ctx, VocabularyProducts, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"DrugA", "DrugB", "DrugC"}, got)
}

func TestImport_Malformed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.controller.Import(context.Background(), strings.NewReader(`{"name": 1}`), VocabularyEvents, utils.FormatJSON)
	assert.Error(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, format := range []utils.Format{utils.FormatCSV, utils.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			source := newTestEnv(t)
			ctx := context.Background()

			_, err := source.repo.Upsert(ctx, VocabularyEvents, "headache", "nausea, severe", `"quoted"`)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, source.controller.Export(ctx, &buf, VocabularyEvents, format))

			target := newTestEnv(t)
			result, err := target.controller.Import(ctx, &buf, VocabularyEvents, format)
			require.NoError(t, err)
			assert.Equal(t, 3, result.Imported)

			want, err := source.repo.ListAllSorted(ctx, VocabularyEvents)
			require.NoError(t, err)
			got, err := target.repo.ListAllSorted(ctx, VocabularyEvents)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
