package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type SubComment struct {
	ProductNames    string          `json:"productNames"`
	Events          string          `json:"events"`
	Relatedness     Relatedness     `json:"relatedness"`
	FreeText        string          `json:"freeText"`
	AdditionalNotes string          `json:"additionalNotes"`
	Justifications  []Justification `json:"justifications"`
}

// Complete reports whether the unit has everything needed to generate text.
func (s SubComment) Complete() bool {
	return strings.TrimSpace(s.ProductNames) != "" &&
		strings.TrimSpace(s.Events) != "" &&
		strings.TrimSpace(string(s.Relatedness)) != ""
}

type Assessment struct {
	BaseModel
	CaseID           string                             `gorm:"type:text;not null;index" json:"caseId"`
	CaseType         CaseType                           `gorm:"type:text;not null;index" json:"caseType"`
	IsLicensePartner bool                               `gorm:"not null;default:false"   json:"isLicensePartner"`
	FollowUpConsent  bool                               `gorm:"not null;default:false"   json:"followUpConsent"`
	ProductNames     string                             `gorm:"type:text;not null"       json:"productNames"`
	Events           string                             `gorm:"type:text;not null"       json:"events"`
	Relatedness      Relatedness                        `gorm:"type:text;not null;index" json:"relatedness"`
	Justifications   datatypes.JSONSlice[Justification] `gorm:"type:text"                json:"justifications"`
	AdditionalNotes  string                             `gorm:"type:text"                json:"additionalNotes"`
	FreeTextComment  string                             `gorm:"type:text"                json:"freeTextComment"`
	GeneratedComment string                             `gorm:"type:text"                json:"generatedComment"`
	Timestamp        int64                              `gorm:"not null;index"           json:"timestamp"`
	SubComments      datatypes.JSONSlice[SubComment]    `gorm:"type:text"                json:"subComments,omitempty"`
}

// Units returns the stored sub-comment units. Records saved before units
// existed are presented as a single unit built from the top level fields.
func (a *Assessment) Units() []SubComment {
	if len(a.SubComments) > 0 {
		return append([]SubComment(nil), a.SubComments...)
	}

	return []SubComment{{
		ProductNames:    a.ProductNames,
		Events:          a.Events,
		Relatedness:     a.Relatedness,
		FreeText:        a.FreeTextComment,
		AdditionalNotes: a.AdditionalNotes,
		Justifications:  append([]Justification(nil), a.Justifications...),
	}}
}

func (a *Assessment) CreatedTime() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// SplitTerms splits a comma separated product or event list, trimming
// whitespace and dropping empty entries.
func SplitTerms(value string) []string {
	terms := []string{}
	for _, term := range strings.Split(value, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

type CreateAssessmentRequest struct {
	CaseID           string       `json:"caseId"`
	CaseType         CaseType     `json:"caseType"`
	IsLicensePartner bool         `json:"isLicensePartner"`
	FollowUpConsent  bool         `json:"followUpConsent"`
	SubComments      []SubComment `json:"subComments"`
}

type PreviewRequest struct {
	UnitID           string     `json:"unitId,omitempty"`
	CaseType         CaseType   `json:"caseType"`
	IsLicensePartner bool       `json:"isLicensePartner"`
	FollowUpConsent  bool       `json:"followUpConsent"`
	SubComment       SubComment `json:"subComment"`
}

// PreviewResponse carries Ready=false while the unit is still missing
// products, events or relatedness.
type PreviewResponse struct {
	UnitID  string `json:"unitId,omitempty"`
	Ready   bool   `json:"ready"`
	Comment string `json:"comment"`
	Error   string `json:"error,omitempty"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
