package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyCSV_RoundTrip(t *testing.T) {
	names := []string{"Aspirin", "Drug, with comma", `Quoted "name"`}

	var buf bytes.Buffer
	require.NoError(t, WriteVocabularyCSV(&buf, names))

	got, err := ReadVocabularyCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestReadVocabularyCSV_Headerless(t *testing.T) {
	got, err := ReadVocabularyCSV(strings.NewReader("Ibuprofen\n\n  Paracetamol \nNaproxen,extra\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ibuprofen", "Paracetamol", "Naproxen"}, got)
}

func TestReadVocabularyCSV_NamedColumn(t *testing.T) {
	got, err := ReadVocabularyCSV(strings.NewReader("createdAt,Name\n2024,Fever\n2024,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fever"}, got)
}

func TestReadVocabularyCSV_Empty(t *testing.T) {
	_, err := ReadVocabularyCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestVocabularyJSON_RoundTrip(t *testing.T) {
	names := []string{"Headache", "Nausea"}

	var buf bytes.Buffer
	require.NoError(t, WriteVocabularyJSON(&buf, names))

	got, err := ReadVocabularyJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestReadVocabularyJSON_Objects(t *testing.T) {
	input := `["Rash", {"name": " Fever "}, {"name": ""}, 12, "  "]`

	got, err := ReadVocabularyJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Rash", "Fever"}, got)
}

func TestWriteVocabularyJSON_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVocabularyJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
