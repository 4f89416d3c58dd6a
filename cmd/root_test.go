package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonz247/commentgenerator/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	root := RootCommand(&config.Context{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, err := execute(t, "generate",
		"--case-type", "pms",
		"--relatedness", "positive",
		"--products", "DrugX",
		"--events", "fever",
	)
	require.NoError(t, err)
	assert.Equal(t, "The company considers that there is a possibility that the fever related to the DrugX.\n", out)
}

func TestGenerateCommand_LicensePartnerCompany(t *testing.T) {
	out, err := execute(t, "--company", "Acme", "generate",
		"--case-type", "clinicalTrial",
		"--lp",
		"--relatedness", "positive",
		"--products", "DrugX",
		"--events", "headache",
	)
	require.NoError(t, err)
	assert.Equal(t, "Acme considers that there is a possibility that the headache related to the study DrugX.\n", out)
}

func TestGenerateCommand_InvalidRelatedness(t *testing.T) {
	_, err := execute(t, "generate", "--case-type", "pms", "--relatedness", "maybe")
	assert.Error(t, err)
}

func TestMigrateAndSeedCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	out, err := execute(t, "--db", dbPath, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "2 migrations applied\n", out)

	out, err = execute(t, "--db", dbPath, "migrate", "status")
	require.NoError(t, err)
	assert.Equal(t, "0001_create_assessments.sql\n0002_create_vocabulary.sql\n", out)

	out, err = execute(t, "--db", dbPath, "seed")
	require.NoError(t, err)
	assert.Equal(t, "3 assessments seeded\n", out)

	out, err = execute(t, "--db", dbPath, "seed")
	require.NoError(t, err)
	assert.Equal(t, "0 assessments seeded\n", out)
}

func TestExportImportCommands(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.db")
	target := filepath.Join(dir, "target.db")
	exported := filepath.Join(dir, "assessments.json")

	_, err := execute(t, "--db", source, "seed")
	require.NoError(t, err)

	_, err = execute(t, "--db", source, "export", "--format", "json", "--output", exported)
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "DEMO-0002"))

	out, err := execute(t, "--db", target, "import", "--format", "json", exported)
	require.NoError(t, err)
	assert.Equal(t, "imported 3, skipped 0\n", out)

	out, err = execute(t, "--db", target, "export", "--target", "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "name\n"))
}

func TestExportCommand_UnknownTarget(t *testing.T) {
	_, err := execute(t, "--db", filepath.Join(t.TempDir(), "cli.db"), "export", "--target", "users")
	assert.Error(t, err)
}
