// README: Feedback handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadrec/internal/modules/feedback"
)

type FeedbackHandler struct {
	feedback *feedback.Service
}

func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedback: svc}
}

// Record handles POST /api/v1/feedback/feedback.
func (h *FeedbackHandler) Record(c *gin.Context) {
	var cmd feedback.RecordCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := h.feedback.Record(c.Request.Context(), cmd); err != nil {
		writeFeedbackError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "feedback recorded successfully"})
}
