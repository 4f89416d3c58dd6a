package seed

import (
	"context"

	"github.com/gonz247/commentgenerator/internal/app"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
)

func demoAssessments() []*Assessment {
	return []*Assessment{
		{
			CaseID:   "DEMO-0001",
			CaseType: CaseTypePMS,
			SubComments: []SubComment{{
				ProductNames:   "Paracetamol",
				Events:         "hepatotoxicity",
				Relatedness:    RelatednessPositive,
				Justifications: []Justification{JustificationKnownSafetyProfile, JustificationTemporalRelationship},
			}},
		},
		{
			CaseID:           "DEMO-0002",
			CaseType:         CaseTypeClinicalTrial,
			IsLicensePartner: true,
			FollowUpConsent:  true,
			SubComments: []SubComment{
				{
					ProductNames:   "Study Drug A",
					Events:         "rash, pruritus",
					Relatedness:    RelatednessNegative,
					Justifications: []Justification{JustificationMedicalHistory, JustificationInsufficientInfo},
				},
				{
					ProductNames: "Comparator B",
					Events:       "headache",
					Relatedness:  RelatednessNotApplicable,
				},
			},
		},
		{
			CaseID:   "DEMO-0003",
			CaseType: CaseTypeSpontaneous,
			SubComments: []SubComment{{
				ProductNames: "Ibuprofen",
				Events:       "gastric ulcer",
				Relatedness:  RelatednessPositive,
				FreeText:     "Event attributed to prolonged use at high doses as described in the narrative.",
			}},
		},
	}
}

// Seed saves a small set of demo assessments in one transaction. Cases that
// already have an assessment are left alone.
func Seed(ctx context.Context, app *app.App, log logger.Logger) (int, error) {
	log = log.Function("seed")
	log.Info("Seeding demo assessments")

	seeded := 0
	err := app.TransactionService.Execute(ctx, func(txCtx context.Context) error {
		for _, assessment := range demoAssessments() {
			existing, err := app.AssessmentRepo.GetByCaseID(txCtx, assessment.CaseID)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				log.Info("Assessment already exists", "caseID", assessment.CaseID)
				continue
			}

			log.Info("Seeding assessment", "caseID", assessment.CaseID)
			if _, err := app.AssessmentController.Save(txCtx, assessment); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, log.Err("failed to seed assessments", err)
	}

	return seeded, nil
}
