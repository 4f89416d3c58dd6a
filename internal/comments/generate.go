package comments

import (
	"errors"
	"strings"

	. "github.com/gonz247/commentgenerator/internal/models"
)

var ErrInvalidCombination = errors.New("invalid case type or relatedness combination")

type Input struct {
	CaseType         CaseType
	IsLicensePartner bool
	ProductNames     string
	Events           string
	Relatedness      Relatedness
	Justifications   []Justification
	AdditionalNotes  string
	FreeText         string
	FollowUpConsent  bool
}

// Engine renders comments. It holds no mutable state; the same input always
// yields the same text.
type Engine struct {
	CompanyName string
}

func NewEngine(companyName string) Engine {
	return Engine{CompanyName: strings.TrimSpace(companyName)}
}

func (e Engine) Generate(in Input) (string, error) {
	template, ok := Template(in.CaseType, in.Relatedness)
	if !ok {
		return "", ErrInvalidCombination
	}

	if freeText := strings.TrimSpace(in.FreeText); freeText != "" {
		return freeText, nil
	}

	comment := strings.NewReplacer(
		placeholderCompany, e.companyName(in.IsLicensePartner),
		placeholderProducts, FormatList(in.ProductNames),
		placeholderEvents, FormatList(in.Events),
	).Replace(template)

	if clauses := e.justificationText(in); clauses != "" {
		comment += " " + clauses
	}

	if notes := strings.TrimSpace(in.AdditionalNotes); notes != "" {
		comment += " " + notes
	}

	return comment, nil
}

// GenerateUnit renders a single sub-comment unit under the case level
// settings.
func (e Engine) GenerateUnit(caseType CaseType, isLicensePartner, followUpConsent bool, unit SubComment) (string, error) {
	return e.Generate(Input{
		CaseType:         caseType,
		IsLicensePartner: isLicensePartner,
		ProductNames:     unit.ProductNames,
		Events:           unit.Events,
		Relatedness:      unit.Relatedness,
		Justifications:   unit.Justifications,
		AdditionalNotes:  unit.AdditionalNotes,
		FreeText:         unit.FreeText,
		FollowUpConsent:  followUpConsent,
	})
}

func (e Engine) companyName(isLicensePartner bool) string {
	if isLicensePartner && e.CompanyName != "" {
		return e.CompanyName
	}
	return genericCompanyName
}

func (e Engine) justificationText(in Input) string {
	if !in.Relatedness.Justifiable() || len(in.Justifications) == 0 {
		return ""
	}

	followUp := followUpNotPossible
	if in.FollowUpConsent {
		followUp = followUpSought
	}

	clauses := make([]string, 0, len(in.Justifications))
	for _, key := range in.Justifications {
		clause, ok := Clause(in.Relatedness, key)
		if !ok {
			continue
		}
		clauses = append(clauses, strings.ReplaceAll(clause, placeholderFollowUp, followUp))
	}

	return strings.Join(clauses, " ")
}
