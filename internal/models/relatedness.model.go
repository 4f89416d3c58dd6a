package models

import "fmt"

type Relatedness string

const (
	RelatednessPositive          Relatedness = "positive"
	RelatednessNegative          Relatedness = "negative"
	RelatednessLPNotAssessable   Relatedness = "lpNotAssessable"
	RelatednessNotApplicable     Relatedness = "notApplicable"
	RelatednessUnblindingPlacebo Relatedness = "unblindingPlacebo"
	// RelatednessMultiple is only assigned to combined assessments whose
	// units disagree.
	RelatednessMultiple Relatedness = "multiple"
)

var Relatednesses = []Relatedness{
	RelatednessPositive,
	RelatednessNegative,
	RelatednessLPNotAssessable,
	RelatednessNotApplicable,
	RelatednessUnblindingPlacebo,
	RelatednessMultiple,
}

func (r Relatedness) Valid() bool {
	switch r {
	case RelatednessPositive, RelatednessNegative, RelatednessLPNotAssessable,
		RelatednessNotApplicable, RelatednessUnblindingPlacebo, RelatednessMultiple:
		return true
	}
	return false
}

// Selectable reports whether a reviewer may pick r for a single unit.
func (r Relatedness) Selectable() bool {
	return r.Valid() && r != RelatednessMultiple
}

// Justifiable reports whether justification clauses apply to r.
func (r Relatedness) Justifiable() bool {
	return r == RelatednessPositive || r == RelatednessNegative
}

func (r Relatedness) Label() string {
	switch r {
	case RelatednessPositive:
		return "Positive"
	case RelatednessNegative:
		return "Negative"
	case RelatednessMultiple:
		return "Multiple Assessments"
	case RelatednessLPNotAssessable:
		return "LP Not Assessable"
	case RelatednessNotApplicable:
		return "Not Applicable"
	case RelatednessUnblindingPlacebo:
		return "Unblinding Placebo"
	}
	return string(r)
}

var relatednessAliases = map[string]Relatedness{
	"noassessment": RelatednessLPNotAssessable,
}

// ParseRelatedness accepts canonical keys, labels and snake_case variants.
func ParseRelatedness(value string) (Relatedness, error) {
	key := normalizeKey(value)
	for _, r := range Relatednesses {
		if key == normalizeKey(string(r)) || key == normalizeKey(r.Label()) {
			return r, nil
		}
	}
	if r, ok := relatednessAliases[key]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown relatedness %q", value)
}
