package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaseType(t *testing.T) {
	tests := []struct {
		input          string
		want           CaseType
		licensePartner bool
		expectError    bool
	}{
		{input: "pms", want: CaseTypePMS},
		{input: "clinicalTrial", want: CaseTypeClinicalTrial},
		{input: "clinical_trial", want: CaseTypeClinicalTrial},
		{input: "Spontaneous", want: CaseTypeSpontaneous},
		{input: "Post-Marketing Study", want: CaseTypePMS},
		{input: "lpPms", want: CaseTypePMS, licensePartner: true},
		{input: "lpClinicalTrial", want: CaseTypeClinicalTrial, licensePartner: true},
		{input: "LP - Spontaneous", want: CaseTypeSpontaneous, licensePartner: true},
		{input: "lp", expectError: true},
		{input: "", expectError: true},
		{input: "literature", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, lp, err := ParseCaseType(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.licensePartner, lp)
		})
	}
}

func TestParseRelatedness(t *testing.T) {
	tests := map[string]Relatedness{
		"positive":             RelatednessPositive,
		"Negative":             RelatednessNegative,
		"lp_not_assessable":    RelatednessLPNotAssessable,
		"No assessment":        RelatednessLPNotAssessable,
		"Not Applicable":       RelatednessNotApplicable,
		"unblindingPlacebo":    RelatednessUnblindingPlacebo,
		"Multiple Assessments": RelatednessMultiple,
	}

	for input, want := range tests {
		got, err := ParseRelatedness(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseRelatedness("possible")
	assert.Error(t, err)
}

func TestRelatednessPredicates(t *testing.T) {
	assert.True(t, RelatednessPositive.Justifiable())
	assert.True(t, RelatednessNegative.Justifiable())
	assert.False(t, RelatednessNotApplicable.Justifiable())
	assert.False(t, RelatednessMultiple.Selectable())
	assert.True(t, RelatednessMultiple.Valid())
	assert.False(t, Relatedness("other").Valid())
}

func TestFormatCaseType(t *testing.T) {
	assert.Equal(t, "Clinical Trial", FormatCaseType(CaseTypeClinicalTrial, false))
	assert.Equal(t, "LP - Post-Marketing Study", FormatCaseType(CaseTypePMS, true))
	assert.Equal(t, "unknown", FormatCaseType("unknown", false))
}

func TestParseJustifications(t *testing.T) {
	got := ParseJustifications("medical_history; temporalRelationship;;legacyKey", ";")
	assert.Equal(t, []Justification{
		JustificationMedicalHistory,
		JustificationTemporalRelationship,
		Justification("legacyKey"),
	}, got)
	assert.Equal(t, "medicalHistory;temporalRelationship;legacyKey", JoinJustifications(got, ";"))
	assert.Empty(t, ParseJustifications("", ";"))
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SplitTerms(" A, B ,,C ,"))
	assert.Empty(t, SplitTerms(""))
}

func TestAssessmentUnits(t *testing.T) {
	t.Run("stored units are returned", func(t *testing.T) {
		a := &Assessment{SubComments: []SubComment{{ProductNames: "DrugX"}, {ProductNames: "DrugY"}}}
		units := a.Units()
		require.Len(t, units, 2)
		units[0].ProductNames = "changed"
		assert.Equal(t, "DrugX", a.SubComments[0].ProductNames)
	})

	t.Run("legacy record synthesizes one unit", func(t *testing.T) {
		a := &Assessment{
			ProductNames:    "DrugX",
			Events:          "fever",
			Relatedness:     RelatednessNegative,
			FreeTextComment: "text",
			AdditionalNotes: "notes",
			Justifications:  []Justification{JustificationMedicalHistory},
		}
		assert.Equal(t, []SubComment{{
			ProductNames:    "DrugX",
			Events:          "fever",
			Relatedness:     RelatednessNegative,
			FreeText:        "text",
			AdditionalNotes: "notes",
			Justifications:  []Justification{JustificationMedicalHistory},
		}}, a.Units())
	})
}

func TestSubCommentComplete(t *testing.T) {
	assert.True(t, SubComment{ProductNames: "a", Events: "b", Relatedness: RelatednessPositive}.Complete())
	assert.False(t, SubComment{ProductNames: "a", Events: " ", Relatedness: RelatednessPositive}.Complete())
}

func TestParseVocabularyKind(t *testing.T) {
	kind, err := ParseVocabularyKind("events")
	require.NoError(t, err)
	assert.Equal(t, VocabularyEvents, kind)

	_, err = ParseVocabularyKind("cases")
	assert.Error(t, err)
}
