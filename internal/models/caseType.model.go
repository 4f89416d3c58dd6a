package models

import (
	"fmt"
	"strings"
)

type CaseType string

const (
	CaseTypePMS           CaseType = "pms"
	CaseTypeClinicalTrial CaseType = "clinicalTrial"
	CaseTypeSpontaneous   CaseType = "spontaneous"
)

var CaseTypes = []CaseType{CaseTypePMS, CaseTypeClinicalTrial, CaseTypeSpontaneous}

func (c CaseType) Valid() bool {
	switch c {
	case CaseTypePMS, CaseTypeClinicalTrial, CaseTypeSpontaneous:
		return true
	}
	return false
}

func (c CaseType) Label() string {
	switch c {
	case CaseTypePMS:
		return "Post-Marketing Study"
	case CaseTypeClinicalTrial:
		return "Clinical Trial"
	case CaseTypeSpontaneous:
		return "Spontaneous"
	}
	return string(c)
}

// FormatCaseType is the listing label, prefixed for license partner cases.
func FormatCaseType(c CaseType, isLicensePartner bool) string {
	if isLicensePartner {
		return "LP - " + c.Label()
	}
	return c.Label()
}

// ParseCaseType accepts the canonical keys, their display labels and the
// older lp-prefixed keys, which carried the license partner flag inline.
func ParseCaseType(value string) (CaseType, bool, error) {
	key := normalizeKey(value)
	licensePartner := false

	if strings.HasPrefix(key, "lp") && len(key) > 2 {
		key = strings.TrimPrefix(key, "lp")
		licensePartner = true
	}

	for _, caseType := range CaseTypes {
		if key == normalizeKey(string(caseType)) || key == normalizeKey(caseType.Label()) {
			return caseType, licensePartner, nil
		}
	}

	return "", false, fmt.Errorf("unknown case type %q", value)
}

func normalizeKey(value string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}
