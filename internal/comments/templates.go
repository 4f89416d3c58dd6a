package comments

import . "github.com/gonz247/commentgenerator/internal/models"

const (
	placeholderCompany  = "{companyName}"
	placeholderProducts = "{productNames}"
	placeholderEvents   = "{events}"
	placeholderFollowUp = "{followUp}"

	genericCompanyName = "The company"

	followUpSought      = "follow-up information has been requested from the reporter"
	followUpNotPossible = "no follow-up is possible as the reporter has not consented to be contacted"
)

const (
	positiveTemplate      = "{companyName} considers that there is a possibility that the {events} related to the {productNames}."
	negativeTemplate      = "{companyName} has determined that it is unlikely that the {events} related to the {productNames}."
	studyPositiveTemplate = "{companyName} considers that there is a possibility that the {events} related to the study {productNames}."
	studyNegativeTemplate = "{companyName} has determined that it is unlikely that the {events} related to the study {productNames}."
	lpNotAssessable       = "LP not assesable case, no comment provided."
	notApplicable         = "Not applicable events for assessment in relation to the product. no comment provided."
	unblindingPlacebo     = "Blinding broken for study termination, placebo case, no comment provided."
)

var baseTemplates = map[CaseType]map[Relatedness]string{
	CaseTypePMS: {
		RelatednessPositive:        positiveTemplate,
		RelatednessNegative:        negativeTemplate,
		RelatednessLPNotAssessable: lpNotAssessable,
		RelatednessNotApplicable:   notApplicable,
	},
	CaseTypeClinicalTrial: {
		RelatednessPositive:          studyPositiveTemplate,
		RelatednessNegative:          studyNegativeTemplate,
		RelatednessLPNotAssessable:   lpNotAssessable,
		RelatednessNotApplicable:     notApplicable,
		RelatednessUnblindingPlacebo: unblindingPlacebo,
	},
	CaseTypeSpontaneous: {
		RelatednessPositive:        positiveTemplate,
		RelatednessNegative:        negativeTemplate,
		RelatednessLPNotAssessable: lpNotAssessable,
		RelatednessNotApplicable:   notApplicable,
	},
}

const insufficientInformation = "The available information is insufficient to draw definitive conclusions regarding the relationship between the product and the reported event; {followUp}."

var justificationClauses = map[Relatedness]map[Justification]string{
	RelatednessPositive: {
		JustificationTemporalRelationship:   "The temporal relationship between product administration and event onset is compatible with a causal association.",
		JustificationDechallengeRechallenge: "Information regarding dechallenge and rechallenge supports a causal relationship between the product and the event.",
		JustificationKnownSafetyProfile:     "The reported event is consistent with the known safety profile of the product.",
		JustificationBiologicalPlausibility: "A plausible pharmacological mechanism exists for the reported event.",
		JustificationInsufficientInfo:       insufficientInformation,
	},
	RelatednessNegative: {
		JustificationMedicalHistory:         "The subject's medical history, including pre-existing conditions, provides a more likely explanation for the reported event.",
		JustificationConcomitantMedication:  "Concomitant medications provide a more likely explanation for the reported event.",
		JustificationAlternativeEtiologies:  "Potential alternative etiologies for the reported event have been explored and are considered more likely.",
		JustificationNoTemporalRelationship: "The temporal relationship between product administration and event onset does not support a causal association.",
		JustificationInsufficientInfo:       insufficientInformation,
	},
}

// Template returns the base template for a case type and relatedness.
func Template(caseType CaseType, relatedness Relatedness) (string, bool) {
	template, ok := baseTemplates[caseType][relatedness]
	return template, ok
}

// Clause returns the justification text for key under relatedness, with
// the follow-up placeholder left unresolved.
func Clause(relatedness Relatedness, key Justification) (string, bool) {
	clause, ok := justificationClauses[relatedness][key]
	return clause, ok
}

// AllowedJustifications lists the keys accepted for relatedness in a stable
// order.
func AllowedJustifications(relatedness Relatedness) []Justification {
	allowed := []Justification{}
	for _, key := range Justifications {
		if _, ok := justificationClauses[relatedness][key]; ok {
			allowed = append(allowed, key)
		}
	}
	return allowed
}
