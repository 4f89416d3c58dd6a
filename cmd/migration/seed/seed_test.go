package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/app"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	application, err := app.NewWithConfig(config.Config{
		ServerPort:      8288,
		DatabaseDbPath:  filepath.Join(t.TempDir(), "seed.db"),
		CompanyName:     "Similares",
		ListingPageSize: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx := context.Background()
	log := logger.New("seed_test")

	seeded, err := Seed(ctx, application, log)
	require.NoError(t, err)
	assert.Equal(t, 3, seeded)

	seeded, err = Seed(ctx, application, log)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	count, err := application.AssessmentRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	stored, err := application.AssessmentRepo.GetByCaseID(ctx, "DEMO-0002")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, RelatednessMultiple, stored[0].Relatedness)
	assert.Contains(t, stored[0].GeneratedComment, "Similares has determined")
}
