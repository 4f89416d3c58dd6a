package utils

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
)

const justificationSeparator = ";"

var AssessmentCSVHeader = []string{
	"id",
	"caseId",
	"caseType",
	"isLicensePartner",
	"followUpConsent",
	"productNames",
	"events",
	"relatedness",
	"justifications",
	"additionalNotes",
	"freeTextComment",
	"generatedComment",
	"timestamp",
	"subComments",
}

var ErrEmptyImport = errors.New("import contains no header row")

// ImportBatch is the parsed content of an import file. Rows that could not
// be parsed are counted in Skipped and left out of Assessments.
type ImportBatch struct {
	Assessments []*Assessment
	Skipped     int
}

func WriteAssessmentsCSV(w io.Writer, assessments []*Assessment) error {
	log := logger.New("utils").File("assessment_csv").Function("WriteAssessmentsCSV")

	writer := csv.NewWriter(w)
	if err := writer.Write(AssessmentCSVHeader); err != nil {
		return log.Err("failed to write csv header", err)
	}

	for _, assessment := range assessments {
		units := []SubComment(assessment.SubComments)
		if units == nil {
			units = []SubComment{}
		}
		subComments, err := json.Marshal(units)
		if err != nil {
			return log.Err("failed to encode sub comments", err, "id", assessment.ID)
		}

		record := []string{
			strconv.Itoa(assessment.ID),
			assessment.CaseID,
			string(assessment.CaseType),
			strconv.FormatBool(assessment.IsLicensePartner),
			strconv.FormatBool(assessment.FollowUpConsent),
			assessment.ProductNames,
			assessment.Events,
			string(assessment.Relatedness),
			JoinJustifications(assessment.Justifications, justificationSeparator),
			assessment.AdditionalNotes,
			assessment.FreeTextComment,
			assessment.GeneratedComment,
			strconv.FormatInt(assessment.Timestamp, 10),
			string(subComments),
		}
		if err := writer.Write(record); err != nil {
			return log.Err("failed to write csv record", err, "id", assessment.ID)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return log.Err("failed to flush csv", err)
	}
	return nil
}

// ReadAssessmentsCSV maps columns by header name, so files with extra or
// reordered columns import as long as caseId and caseType are present.
func ReadAssessmentsCSV(r io.Reader, now time.Time) (ImportBatch, error) {
	log := logger.New("utils").File("assessment_csv").Function("ReadAssessmentsCSV")

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportBatch{}, ErrEmptyImport
	}
	if err != nil {
		return ImportBatch{}, log.Err("failed to read csv header", err)
	}

	columns := mapColumns(header)
	for _, required := range []string{"caseid", "casetype"} {
		if _, ok := columns[required]; !ok {
			return ImportBatch{}, log.Error("csv header is missing a required column", "column", required)
		}
	}

	batch := ImportBatch{Assessments: []*Assessment{}}
	dates := NewDateValidator()
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Warn("skipping unreadable csv row", "line", line, "error", err)
			batch.Skipped++
			continue
		}

		assessment, err := parseAssessmentRow(columns, record, dates, now)
		if err != nil {
			log.Warn("skipping malformed csv row", "line", line, "error", err)
			batch.Skipped++
			continue
		}
		batch.Assessments = append(batch.Assessments, assessment)
	}

	log.Info("parsed csv import", "imported", len(batch.Assessments), "skipped", batch.Skipped)
	return batch, nil
}

func normalizeHeader(name string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "", "\ufeff", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
}

func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}
	return columns
}

func parseAssessmentRow(columns map[string]int, record []string, dates *DateValidator, now time.Time) (*Assessment, error) {
	cell := func(name string) string {
		if i, ok := columns[normalizeHeader(name)]; ok && i < len(record) {
			return record[i]
		}
		return ""
	}

	flag := func(name string) (bool, error) {
		value := strings.TrimSpace(cell(name))
		if value == "" {
			return false, nil
		}
		switch strings.ToLower(value) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		return strconv.ParseBool(value)
	}

	input := importRecord{
		CaseID:           cell("caseId"),
		CaseType:         cell("caseType"),
		ProductNames:     cell("productNames"),
		Events:           cell("events"),
		Relatedness:      cell("relatedness"),
		Justifications:   ParseJustifications(cell("justifications"), justificationSeparator),
		AdditionalNotes:  cell("additionalNotes"),
		FreeTextComment:  cell("freeTextComment"),
		GeneratedComment: cell("generatedComment"),
	}

	var err error
	if input.IsLicensePartner, err = flag("isLicensePartner"); err != nil {
		return nil, fmt.Errorf("isLicensePartner: %w", err)
	}
	if input.FollowUpConsent, err = flag("followUpConsent"); err != nil {
		return nil, fmt.Errorf("followUpConsent: %w", err)
	}
	if input.Timestamp, err = dates.ParseTimestamp(cell("timestamp"), now.UnixMilli()); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(cell("subComments")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.SubComments); err != nil {
			return nil, fmt.Errorf("subComments: %w", err)
		}
	}

	return input.toAssessment()
}

// importRecord is the loosely typed shape shared by the csv and json readers
// before enums and legacy case types are resolved.
type importRecord struct {
	CaseID           string          `json:"caseId"`
	CaseType         string          `json:"caseType"`
	IsLicensePartner bool            `json:"isLicensePartner"`
	FollowUpConsent  bool            `json:"followUpConsent"`
	ProductNames     string          `json:"productNames"`
	Events           string          `json:"events"`
	Relatedness      string          `json:"relatedness"`
	Justifications   []Justification `json:"justifications"`
	AdditionalNotes  string          `json:"additionalNotes"`
	FreeTextComment  string          `json:"freeTextComment"`
	GeneratedComment string          `json:"generatedComment"`
	Timestamp        int64           `json:"-"`
	SubComments      []SubComment    `json:"subComments"`
}

func (r importRecord) toAssessment() (*Assessment, error) {
	caseID := strings.TrimSpace(r.CaseID)
	if caseID == "" {
		return nil, errors.New("caseId is empty")
	}

	caseType, legacyLicensePartner, err := ParseCaseType(r.CaseType)
	if err != nil {
		return nil, err
	}

	var relatedness Relatedness
	if strings.TrimSpace(r.Relatedness) != "" {
		if relatedness, err = ParseRelatedness(r.Relatedness); err != nil {
			return nil, err
		}
	} else if len(r.SubComments) == 0 {
		return nil, errors.New("relatedness is empty")
	}

	units := make([]SubComment, 0, len(r.SubComments))
	for i, unit := range r.SubComments {
		if strings.TrimSpace(string(unit.Relatedness)) != "" {
			if unit.Relatedness, err = ParseRelatedness(string(unit.Relatedness)); err != nil {
				return nil, fmt.Errorf("subComments[%d]: %w", i, err)
			}
		}
		if unit.Justifications == nil {
			unit.Justifications = []Justification{}
		}
		units = append(units, unit)
	}

	justifications := r.Justifications
	if justifications == nil {
		justifications = []Justification{}
	}

	return &Assessment{
		CaseID:           caseID,
		CaseType:         caseType,
		IsLicensePartner: r.IsLicensePartner || legacyLicensePartner,
		FollowUpConsent:  r.FollowUpConsent,
		ProductNames:     r.ProductNames,
		Events:           r.Events,
		Relatedness:      relatedness,
		Justifications:   justifications,
		AdditionalNotes:  r.AdditionalNotes,
		FreeTextComment:  r.FreeTextComment,
		GeneratedComment: r.GeneratedComment,
		Timestamp:        r.Timestamp,
		SubComments:      units,
	}, nil
}
