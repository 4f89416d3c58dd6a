package generate

import (
	"fmt"
	"strings"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/comments"
	. "github.com/gonz247/commentgenerator/internal/models"

	"github.com/spf13/cobra"
)

type flags struct {
	caseType        string
	licensePartner  bool
	followUp        bool
	products        string
	events          string
	relatedness     string
	justifications  []string
	additionalNotes string
	freeText        string
}

// Command renders one comment from flags without touching the database.
func Command(ctx *config.Context) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the comment for a single product/event assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := render(comments.NewEngine(ctx.Config.CompanyName), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), comment)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.caseType, "case-type", "", "pms, clinicalTrial or spontaneous")
	cmd.Flags().BoolVar(&f.licensePartner, "lp", false, "Case comes from a license partner")
	cmd.Flags().BoolVar(&f.followUp, "follow-up", false, "Reporter consented to follow-up")
	cmd.Flags().StringVar(&f.products, "products", "", "Comma separated product names")
	cmd.Flags().StringVar(&f.events, "events", "", "Comma separated events")
	cmd.Flags().StringVar(&f.relatedness, "relatedness", "", "positive, negative, lpNotAssessable, notApplicable or unblindingPlacebo")
	cmd.Flags().StringSliceVar(&f.justifications, "justification", nil, "Justification key, repeatable")
	cmd.Flags().StringVar(&f.additionalNotes, "notes", "", "Additional notes appended to the comment")
	cmd.Flags().StringVar(&f.freeText, "free-text", "", "Replaces the generated comment entirely")
	_ = cmd.MarkFlagRequired("case-type")
	_ = cmd.MarkFlagRequired("relatedness")

	return cmd
}

func render(engine comments.Engine, f flags) (string, error) {
	caseType, legacyLicensePartner, err := ParseCaseType(f.caseType)
	if err != nil {
		return "", err
	}
	relatedness, err := ParseRelatedness(f.relatedness)
	if err != nil {
		return "", err
	}

	return engine.Generate(comments.Input{
		CaseType:         caseType,
		IsLicensePartner: f.licensePartner || legacyLicensePartner,
		ProductNames:     f.products,
		Events:           f.events,
		Relatedness:      relatedness,
		Justifications:   ParseJustifications(strings.Join(f.justifications, ","), ","),
		AdditionalNotes:  f.additionalNotes,
		FreeText:         f.freeText,
		FollowUpConsent:  f.followUp,
	})
}
