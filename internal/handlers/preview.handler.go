package handlers

import (
	"encoding/json"

	"github.com/gonz247/commentgenerator/internal/app"
	assessmentController "github.com/gonz247/commentgenerator/internal/controllers/assessments"
	"github.com/gonz247/commentgenerator/internal/logger"
	. "github.com/gonz247/commentgenerator/internal/models"

	"github.com/gofiber/websocket/v2"
)

// PreviewHandler answers every PreviewRequest message on a socket with a
// PreviewResponse, so a form can re-render unit previews as the user types.
type PreviewHandler struct {
	controller *assessmentController.AssessmentController
	log        logger.Logger
}

func NewPreviewHandler(app app.App) *PreviewHandler {
	return &PreviewHandler{
		controller: app.AssessmentController,
		log:        logger.New("handlers").File("preview_handler"),
	}
}

func (h *PreviewHandler) serve(c *websocket.Conn) {
	log := h.log.Function("serve")
	defer c.Close()

	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("preview socket closed unexpectedly", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var request PreviewRequest
		var response PreviewResponse
		if err := json.Unmarshal(payload, &request); err != nil {
			response = PreviewResponse{Error: "invalid preview request"}
		} else {
			response = h.controller.Preview(request)
		}

		if err := c.WriteJSON(response); err != nil {
			log.Er("failed to write preview", err)
			return
		}
	}
}
