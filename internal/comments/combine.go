package comments

import (
	"errors"
	"strings"

	. "github.com/gonz247/commentgenerator/internal/models"
)

var (
	ErrNoCaseType   = errors.New("case type is required")
	ErrNoValidUnits = errors.New("at least one complete comment section is required")
)

const (
	commentSeparator = "\n\n"
	termSeparator    = ", "
	notesSeparator   = " | "
)

type CombineRequest struct {
	CaseType         CaseType
	IsLicensePartner bool
	FollowUpConsent  bool
	Units            []SubComment
}

// Combined is the merge of every complete unit of a form submission.
type Combined struct {
	Comment         string          `json:"comment"`
	ProductNames    string          `json:"productNames"`
	Events          string          `json:"events"`
	Justifications  []Justification `json:"justifications"`
	AdditionalNotes string          `json:"additionalNotes"`
	Relatedness     Relatedness     `json:"relatedness"`
	Units           []SubComment    `json:"subComments"`
}

// CompleteUnits trims each unit and drops those missing products, events or
// relatedness, keeping input order.
func CompleteUnits(units []SubComment) []SubComment {
	complete := make([]SubComment, 0, len(units))
	for _, unit := range units {
		unit = trimUnit(unit)
		if unit.Complete() {
			complete = append(complete, unit)
		}
	}
	return complete
}

func (e Engine) Combine(req CombineRequest) (*Combined, error) {
	if strings.TrimSpace(string(req.CaseType)) == "" {
		return nil, ErrNoCaseType
	}

	units := CompleteUnits(req.Units)
	if len(units) == 0 {
		return nil, ErrNoValidUnits
	}

	comments := make([]string, 0, len(units))
	products := make([]string, 0, len(units))
	events := make([]string, 0, len(units))
	notes := []string{}
	justifications := []Justification{}
	seen := map[Justification]bool{}

	for _, unit := range units {
		comment, err := e.GenerateUnit(req.CaseType, req.IsLicensePartner, req.FollowUpConsent, unit)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
		products = append(products, unit.ProductNames)
		events = append(events, unit.Events)

		if unit.AdditionalNotes != "" {
			notes = append(notes, unit.AdditionalNotes)
		}

		for _, key := range unit.Justifications {
			if !seen[key] {
				seen[key] = true
				justifications = append(justifications, key)
			}
		}
	}

	return &Combined{
		Comment:         strings.Join(comments, commentSeparator),
		ProductNames:    strings.Join(products, termSeparator),
		Events:          strings.Join(events, termSeparator),
		Justifications:  justifications,
		AdditionalNotes: strings.Join(notes, notesSeparator),
		Relatedness:     AggregateRelatedness(units),
		Units:           units,
	}, nil
}

// AggregateRelatedness is the shared relatedness of units, or
// RelatednessMultiple when they disagree.
func AggregateRelatedness(units []SubComment) Relatedness {
	if len(units) == 0 {
		return ""
	}

	first := units[0].Relatedness
	for _, unit := range units[1:] {
		if unit.Relatedness != first {
			return RelatednessMultiple
		}
	}
	return first
}

// Regenerate renders the stored units of an assessment again.
func (e Engine) Regenerate(a *Assessment) (string, error) {
	combined, err := e.Combine(CombineRequest{
		CaseType:         a.CaseType,
		IsLicensePartner: a.IsLicensePartner,
		FollowUpConsent:  a.FollowUpConsent,
		Units:            a.Units(),
	})
	if err != nil {
		return "", err
	}
	return combined.Comment, nil
}

func trimUnit(unit SubComment) SubComment {
	unit.ProductNames = strings.TrimSpace(unit.ProductNames)
	unit.Events = strings.TrimSpace(unit.Events)
	unit.Relatedness = Relatedness(strings.TrimSpace(string(unit.Relatedness)))
	unit.FreeText = strings.TrimSpace(unit.FreeText)
	unit.AdditionalNotes = strings.TrimSpace(unit.AdditionalNotes)
	if unit.Justifications == nil {
		unit.Justifications = []Justification{}
	}
	return unit
}
