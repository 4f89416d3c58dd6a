package models

import (
	"fmt"
	"strings"
)

type Justification string

const (
	JustificationTemporalRelationship   Justification = "temporalRelationship"
	JustificationDechallengeRechallenge Justification = "dechallengeRechallenge"
	JustificationKnownSafetyProfile     Justification = "knownSafetyProfile"
	JustificationBiologicalPlausibility Justification = "biologicalPlausibility"
	JustificationMedicalHistory         Justification = "medicalHistory"
	JustificationConcomitantMedication  Justification = "concomitantMedication"
	JustificationAlternativeEtiologies  Justification = "alternativeEtiologies"
	JustificationNoTemporalRelationship Justification = "noTemporalRelationship"
	JustificationInsufficientInfo       Justification = "insufficientInformation"
)

var Justifications = []Justification{
	JustificationTemporalRelationship,
	JustificationDechallengeRechallenge,
	JustificationKnownSafetyProfile,
	JustificationBiologicalPlausibility,
	JustificationMedicalHistory,
	JustificationConcomitantMedication,
	JustificationAlternativeEtiologies,
	JustificationNoTemporalRelationship,
	JustificationInsufficientInfo,
}

func ParseJustification(value string) (Justification, error) {
	key := normalizeKey(value)
	for _, j := range Justifications {
		if key == normalizeKey(string(j)) {
			return j, nil
		}
	}
	return "", fmt.Errorf("unknown justification %q", value)
}

// ParseJustifications splits a separator-joined list. Unknown keys are kept
// as-is so older exports survive import; generation skips them.
func ParseJustifications(value, sep string) []Justification {
	justifications := []Justification{}
	for _, part := range strings.Split(value, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if j, err := ParseJustification(part); err == nil {
			justifications = append(justifications, j)
			continue
		}
		justifications = append(justifications, Justification(part))
	}
	return justifications
}

func JoinJustifications(justifications []Justification, sep string) string {
	parts := make([]string, len(justifications))
	for i, j := range justifications {
		parts[i] = string(j)
	}
	return strings.Join(parts, sep)
}
