package handlers

import (
	"bytes"
	"errors"
	"io"

	"github.com/gonz247/commentgenerator/internal/app"
	assessmentController "github.com/gonz247/commentgenerator/internal/controllers/assessments"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/query"
	"github.com/gonz247/commentgenerator/internal/repositories"
	"github.com/gonz247/commentgenerator/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AssessmentHandler struct {
	Handler
	controller *assessmentController.AssessmentController
}

func NewAssessmentHandler(app app.App, router fiber.Router) *AssessmentHandler {
	log := logger.New("handlers").File("assessment_handler")
	return &AssessmentHandler{
		controller: app.AssessmentController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *AssessmentHandler) Register() {
	h.router.Post("/comments/preview", h.preview)
	h.router.Get("/cases", h.searchCases)

	assessments := h.router.Group("/assessments")
	assessments.Post("/generate", h.generate)
	assessments.Post("/", h.create)
	assessments.Get("/", h.list)
	assessments.Get("/:id/form", h.populateForm)
	assessments.Get("/:id", h.getAssessment)
	assessments.Delete("/:id", h.deleteAssessment)

	h.router.Get("/export/assessments", h.export)
	h.router.Post("/import/assessments", h.importAssessments)
}

// statusFor maps controller errors onto response codes.
func statusFor(err error) int {
	switch {
	case assessmentController.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrAssessmentNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *AssessmentHandler) preview(c *fiber.Ctx) error {
	var request PreviewRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("preview").Er("failed to parse preview request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse preview request"})
	}

	return c.JSON(fiber.Map{"message": "success", "preview": h.controller.Preview(request)})
}

func (h *AssessmentHandler) generate(c *fiber.Ctx) error {
	log := h.log.Function("generate")

	var request CreateAssessmentRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse generate request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse generate request"})
	}

	combined, err := h.controller.Generate(request)
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to generate comment", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "comment": combined.Comment, "combined": combined})
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var assessment Assessment
	if err := c.BodyParser(&assessment); err != nil {
		log.Er("failed to parse assessment", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse assessment"})
	}

	saved, err := h.controller.Save(c.Context(), &assessment)
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to save assessment", "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "id": saved.ID, "assessment": saved})
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	result, err := h.controller.List(c.Context(), query.Options{
		Search:      c.Query("search"),
		Relatedness: Relatedness(c.Query("relatedness")),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", 0),
	})
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to list assessments", "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message":     "success",
		"assessments": result.Assessments,
		"total":       result.Total,
		"visible":     result.Visible,
		"page":        result.Page,
		"hasMore":     result.HasMore,
	})
}

func (h *AssessmentHandler) getAssessment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "assessment ID is required"})
	}

	assessment, err := h.controller.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to get assessment", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "assessment": assessment})
}

func (h *AssessmentHandler) populateForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "assessment ID is required"})
	}

	form, err := h.controller.PopulateForm(c.Context(), id)
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to load assessment", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "form": form})
}

func (h *AssessmentHandler) deleteAssessment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "assessment ID is required"})
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to delete assessment", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *AssessmentHandler) searchCases(c *fiber.Ctx) error {
	cases, err := h.controller.SearchCases(c.Context(), c.Query("q"))
	if err != nil {
		return c.Status(statusFor(err)).
			JSON(fiber.Map{"message": "failed to search cases", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "cases": cases})
}

func (h *AssessmentHandler) export(c *fiber.Ctx) error {
	format, err := utils.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unsupported format", "error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.controller.Export(c.Context(), &buf, format); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to export assessments", "error": err.Error()})
	}

	c.Attachment(format.Filename("assessments"))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buf.Bytes())
}

func (h *AssessmentHandler) importAssessments(c *fiber.Ctx) error {
	format, err := utils.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unsupported format", "error": err.Error()})
	}

	body, err := uploadBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to read upload", "error": err.Error()})
	}

	result, err := h.controller.Import(c.Context(), body, format)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, utils.ErrEmptyImport) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).
			JSON(fiber.Map{"message": "failed to import assessments", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "imported": result.Imported, "skipped": result.Skipped})
}

// uploadBody returns the multipart "file" field when present, otherwise the
// raw request body.
func uploadBody(c *fiber.Ctx) (io.Reader, error) {
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer opened.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, opened); err != nil {
			return nil, err
		}
		return &buf, nil
	}

	return bytes.NewReader(c.Body()), nil
}
