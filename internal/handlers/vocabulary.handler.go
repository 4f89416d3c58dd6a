package handlers

import (
	"bytes"
	"errors"

	"github.com/gonz247/commentgenerator/internal/app"
	vocabularyController "github.com/gonz247/commentgenerator/internal/controllers/vocabulary"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type VocabularyHandler struct {
	Handler
	controller *vocabularyController.VocabularyController
}

func NewVocabularyHandler(app app.App, router fiber.Router) *VocabularyHandler {
	log := logger.New("handlers").File("vocabulary_handler")
	return &VocabularyHandler{
		controller: app.VocabularyController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *VocabularyHandler) Register() {
	h.router.Get("/vocabulary/:kind", h.search)
	h.router.Get("/export/vocabulary/:kind", h.export)
	h.router.Post("/import/vocabulary/:kind", h.importVocabulary)
}

func (h *VocabularyHandler) search(c *fiber.Ctx) error {
	kind, err := ParseVocabularyKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unknown vocabulary", "error": err.Error()})
	}

	terms, err := h.controller.Search(c.Context(), kind, c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		h.log.Function("search").Er("failed to search vocabulary", err, "kind", kind)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to search vocabulary", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "terms": terms})
}

func (h *VocabularyHandler) export(c *fiber.Ctx) error {
	kind, err := ParseVocabularyKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unknown vocabulary", "error": err.Error()})
	}
	format, err := utils.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unsupported format", "error": err.Error()})
	}

	var buf bytes.Buffer
	if err := h.controller.Export(c.Context(), &buf, kind, format); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to export vocabulary", "error": err.Error()})
	}

	c.Attachment(format.Filename(string(kind)))
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(buf.Bytes())
}

func (h *VocabularyHandler) importVocabulary(c *fiber.Ctx) error {
	kind, err := ParseVocabularyKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "unknown vocabulary", "error": err.Error()})
	}
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

	result, err := h.controller.Import(c.Context(), body, kind, format)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, utils.ErrEmptyImport) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).
			JSON(fiber.Map{"message": "failed to import vocabulary", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "success", "imported": result.Imported, "skipped": result.Skipped})
}
