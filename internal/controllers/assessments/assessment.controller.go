package assessmentController

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/comments"
	"github.com/gonz247/commentgenerator/internal/logger"
	"github.com/gonz247/commentgenerator/internal/metrics"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/query"
	"github.com/gonz247/commentgenerator/internal/repositories"
	"github.com/gonz247/commentgenerator/internal/services"
	"github.com/gonz247/commentgenerator/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrMissingCaseID      = errors.New("case id is required")
	ErrInvalidCaseType    = errors.New("invalid case type")
	ErrInvalidRelatedness = errors.New("invalid relatedness")
)

// IsValidationError reports whether err was caused by the submitted data
// rather than by storage.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingCaseID,
		ErrInvalidCaseType,
		ErrInvalidRelatedness,
		comments.ErrNoCaseType,
		comments.ErrNoValidUnits,
		comments.ErrInvalidCombination,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type AssessmentController struct {
	assessmentRepo           repositories.AssessmentRepository
	engine                   comments.Engine
	transactionService       *services.TransactionService
	cacheInvalidationService *services.CacheInvalidationService
	metrics                  *metrics.CommentMetrics
	pageSize                 int
	now                      func() time.Time
	log                      logger.Logger
}

func New(
	assessmentRepo repositories.AssessmentRepository,
	engine comments.Engine,
	transactionService *services.TransactionService,
	cacheInvalidationService *services.CacheInvalidationService,
	metrics *metrics.CommentMetrics,
	config config.Config,
) *AssessmentController {
	pageSize := config.ListingPageSize
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}

	return &AssessmentController{
		assessmentRepo:           assessmentRepo,
		engine:                   engine,
		transactionService:       transactionService,
		cacheInvalidationService: cacheInvalidationService,
		metrics:                  metrics,
		pageSize:                 pageSize,
		now:                      time.Now,
		log:                      logger.New("AssessmentController"),
	}
}

// Preview renders a single unit for the live preview. A unit that is still
// missing required fields is not an error, it is simply not ready.
func (ac *AssessmentController) Preview(req PreviewRequest) PreviewResponse {
	response := PreviewResponse{UnitID: req.UnitID}

	if strings.TrimSpace(string(req.CaseType)) == "" || !req.SubComment.Complete() {
		return response
	}

	caseType, legacyLicensePartner, err := ParseCaseType(string(req.CaseType))
	if err != nil {
		response.Error = fmt.Errorf("%w: %s", ErrInvalidCaseType, req.CaseType).Error()
		ac.metrics.RecordGenerate("unit", err)
		return response
	}

	comment, err := ac.engine.GenerateUnit(
		caseType,
		req.IsLicensePartner || legacyLicensePartner,
		req.FollowUpConsent,
		req.SubComment,
	)
	ac.metrics.RecordGenerate("unit", err)
	if err != nil {
		response.Error = err.Error()
		return response
	}

	response.Ready = true
	response.Comment = comment
	return response
}

// Generate builds the combined assessment for a form submission without
// saving it.
func (ac *AssessmentController) Generate(req CreateAssessmentRequest) (*comments.Combined, error) {
	combined, err := ac.combine(req.CaseType, req.IsLicensePartner, req.FollowUpConsent, req.SubComments)
	ac.metrics.RecordGenerate("combined", err)
	return combined, err
}

func (ac *AssessmentController) combine(
	caseType CaseType,
	isLicensePartner bool,
	followUpConsent bool,
	units []SubComment,
) (*comments.Combined, error) {
	if strings.TrimSpace(string(caseType)) == "" {
		return nil, comments.ErrNoCaseType
	}

	parsed, legacyLicensePartner, err := ParseCaseType(string(caseType))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCaseType, caseType)
	}

	normalized, err := normalizeUnits(units)
	if err != nil {
		return nil, err
	}

	return ac.engine.Combine(comments.CombineRequest{
		CaseType:         parsed,
		IsLicensePartner: isLicensePartner || legacyLicensePartner,
		FollowUpConsent:  followUpConsent,
		Units:            normalized,
	})
}

// normalizeUnits drops incomplete units and resolves relatedness aliases on
// the rest. Only relatedness values a user can select are accepted.
func normalizeUnits(units []SubComment) ([]SubComment, error) {
	normalized := make([]SubComment, 0, len(units))
	for i, unit := range units {
		if !unit.Complete() {
			continue
		}
		value := strings.TrimSpace(string(unit.Relatedness))
		relatedness, err := ParseRelatedness(value)
		if err != nil || !relatedness.Selectable() {
			return nil, fmt.Errorf("%w: unit %d: %s", ErrInvalidRelatedness, i+1, value)
		}
		unit.Relatedness = relatedness
		normalized = append(normalized, unit)
	}
	return normalized, nil
}

// Save validates and stores a complete assessment record. When sub-comment
// units are present every derived field, the generated comment included, is
// rebuilt from them.
func (ac *AssessmentController) Save(ctx context.Context, assessment *Assessment) (*Assessment, error) {
	log := ac.log.Function("Save")

	if err := ac.prepare(assessment); err != nil {
		ac.metrics.RecordSave(string(assessment.Relatedness), err)
		return nil, err
	}

	err := ac.assessmentRepo.Create(ctx, assessment)
	ac.metrics.RecordSave(string(assessment.Relatedness), err)
	if err != nil {
		return nil, log.Err("failed to save assessment", err, "caseID", assessment.CaseID)
	}

	ac.cacheInvalidationService.InvalidateVocabulary()

	log.Info("assessment saved", "id", assessment.ID, "caseID", assessment.CaseID)
	return assessment, nil
}

func (ac *AssessmentController) prepare(assessment *Assessment) error {
	assessment.ID = 0
	assessment.CaseID = strings.TrimSpace(assessment.CaseID)
	if assessment.CaseID == "" {
		return ErrMissingCaseID
	}

	if len(assessment.SubComments) > 0 {
		combined, err := ac.combine(
			assessment.CaseType,
			assessment.IsLicensePartner,
			assessment.FollowUpConsent,
			assessment.SubComments,
		)
		if err != nil {
			return err
		}
		applyCombined(assessment, combined)
	} else if err := ac.prepareLegacy(assessment); err != nil {
		return err
	}

	caseType, legacyLicensePartner, _ := ParseCaseType(string(assessment.CaseType))
	assessment.CaseType = caseType
	assessment.IsLicensePartner = assessment.IsLicensePartner || legacyLicensePartner

	if assessment.Timestamp == 0 {
		assessment.Timestamp = ac.now().UnixMilli()
	}

	return nil
}

// applyCombined replaces every derived field with what the units produce, so
// the stored comment can always be rendered again from the stored units.
func applyCombined(assessment *Assessment, combined *comments.Combined) {
	assessment.SubComments = combined.Units
	assessment.ProductNames = combined.ProductNames
	assessment.Events = combined.Events
	assessment.Relatedness = combined.Relatedness
	assessment.Justifications = combined.Justifications
	assessment.AdditionalNotes = combined.AdditionalNotes
	assessment.GeneratedComment = combined.Comment
}

// prepareLegacy handles records saved before sub-comment units existed. They
// carry a single relatedness at the top level.
func (ac *AssessmentController) prepareLegacy(assessment *Assessment) error {
	if strings.TrimSpace(string(assessment.CaseType)) == "" {
		return comments.ErrNoCaseType
	}
	caseType, legacyLicensePartner, err := ParseCaseType(string(assessment.CaseType))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCaseType, assessment.CaseType)
	}
	assessment.CaseType = caseType
	assessment.IsLicensePartner = assessment.IsLicensePartner || legacyLicensePartner

	relatedness, err := ParseRelatedness(string(assessment.Relatedness))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRelatedness, assessment.Relatedness)
	}
	assessment.Relatedness = relatedness

	if strings.TrimSpace(assessment.GeneratedComment) != "" {
		return nil
	}
	if !assessment.Units()[0].Complete() {
		return comments.ErrNoValidUnits
	}

	comment, err := ac.engine.Regenerate(assessment)
	if err != nil {
		return err
	}
	assessment.GeneratedComment = comment
	return nil
}

func (ac *AssessmentController) List(ctx context.Context, opts query.Options) (query.Result, error) {
	log := ac.log.Function("List")

	if opts.PageSize <= 0 {
		opts.PageSize = ac.pageSize
	}
	if opts.Relatedness != "" {
		relatedness, err := ParseRelatedness(string(opts.Relatedness))
		if err != nil {
			return query.Result{}, fmt.Errorf("%w: %s", ErrInvalidRelatedness, opts.Relatedness)
		}
		opts.Relatedness = relatedness
	}

	assessments, err := ac.assessmentRepo.GetAll(ctx)
	if err != nil {
		return query.Result{}, log.Err("failed to list assessments", err)
	}

	return query.Apply(assessments, opts), nil
}

func (ac *AssessmentController) GetByID(ctx context.Context, id int) (*Assessment, error) {
	assessment, err := ac.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssessmentNotFound) {
			return nil, err
		}
		return nil, ac.log.Function("GetByID").Err("failed to get assessment", err, "id", id)
	}
	return assessment, nil
}

func (ac *AssessmentController) Delete(ctx context.Context, id int) error {
	log := ac.log.Function("Delete")

	err := ac.assessmentRepo.Delete(ctx, id)
	ac.metrics.RecordDelete(err)
	if err != nil {
		if errors.Is(err, repositories.ErrAssessmentNotFound) {
			return err
		}
		return log.Err("failed to delete assessment", err, "id", id)
	}

	if err := ac.cacheInvalidationService.InvalidateAssessment(ctx, id); err != nil {
		log.Warn("assessment deleted but cache entry remains", "id", id, "error", err)
	}

	log.Info("assessment deleted", "id", id)
	return nil
}

// SearchCases returns the latest assessment of every case whose id contains q.
func (ac *AssessmentController) SearchCases(ctx context.Context, q string) ([]*Assessment, error) {
	assessments, err := ac.assessmentRepo.GetAll(ctx)
	if err != nil {
		return nil, ac.log.Function("SearchCases").Err("failed to load assessments", err)
	}
	return query.SearchCases(assessments, q), nil
}

func (ac *AssessmentController) Export(ctx context.Context, w io.Writer, format utils.Format) error {
	log := ac.log.Function("Export")

	assessments, err := ac.assessmentRepo.GetAll(ctx)
	if err != nil {
		return log.Err("failed to load assessments", err)
	}

	switch format {
	case utils.FormatJSON:
		err = utils.WriteAssessmentsJSON(w, assessments)
	default:
		err = utils.WriteAssessmentsCSV(w, assessments)
	}
	if err != nil {
		return log.Err("failed to export assessments", err, "format", format)
	}

	ac.metrics.RecordExport("assessments", string(format))
	log.Info("assessments exported", "count", len(assessments), "format", format)
	return nil
}

// Import parses r and saves every well formed record in one transaction.
// Records that fail to parse or validate are skipped and counted. A storage
// failure rolls the whole batch back.
func (ac *AssessmentController) Import(ctx context.Context, r io.Reader, format utils.Format) (ImportResult, error) {
	log := ac.log.Function("Import")

	var (
		batch utils.ImportBatch
		err   error
	)
	switch format {
	case utils.FormatJSON:
		batch, err = utils.ReadAssessmentsJSON(r, ac.now())
	default:
		batch, err = utils.ReadAssessmentsCSV(r, ac.now())
	}
	if err != nil {
		return ImportResult{}, log.Err("failed to parse import", err, "format", format)
	}

	result := ImportResult{Skipped: batch.Skipped}
	err = ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		for _, assessment := range batch.Assessments {
			if err := ac.prepare(assessment); err != nil {
				log.Warn("skipping invalid import record", "caseID", assessment.CaseID, "error", err)
				result.Skipped++
				continue
			}
			if err := ac.assessmentRepo.Create(txCtx, assessment); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, log.Err("failed to import assessments", err, "format", format)
	}

	ac.cacheInvalidationService.InvalidateVocabulary()
	ac.metrics.RecordImport("assessments", string(format), result.Imported, result.Skipped)

	log.Info("assessments imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

type FormUnit struct {
	ID string `json:"id"`
	SubComment
	Preview PreviewResponse `json:"preview"`
}

// FormState is an editable copy of a stored assessment. Unit ids are fresh
// for every call and only identify units within one editing session.
type FormState struct {
	SourceID         int        `json:"sourceId"`
	CaseID           string     `json:"caseId"`
	CaseType         CaseType   `json:"caseType"`
	IsLicensePartner bool       `json:"isLicensePartner"`
	FollowUpConsent  bool       `json:"followUpConsent"`
	Units            []FormUnit `json:"units"`
}

func (ac *AssessmentController) PopulateForm(ctx context.Context, id int) (*FormState, error) {
	assessment, err := ac.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	form := &FormState{
		SourceID:         assessment.ID,
		CaseID:           assessment.CaseID,
		CaseType:         assessment.CaseType,
		IsLicensePartner: assessment.IsLicensePartner,
		FollowUpConsent:  assessment.FollowUpConsent,
		Units:            []FormUnit{},
	}

	for _, unit := range assessment.Units() {
		unitID, err := uuid.NewV7()
		if err != nil {
			return nil, ac.log.Function("PopulateForm").Err("failed to generate unit id", err)
		}
		if unit.Justifications == nil {
			unit.Justifications = []Justification{}
		}

		form.Units = append(form.Units, FormUnit{
			ID:         unitID.String(),
			SubComment: unit,
			Preview: ac.Preview(PreviewRequest{
				UnitID:           unitID.String(),
				CaseType:         assessment.CaseType,
				IsLicensePartner: assessment.IsLicensePartner,
				FollowUpConsent:  assessment.FollowUpConsent,
				SubComment:       unit,
			}),
		})
	}

	return form, nil
}
