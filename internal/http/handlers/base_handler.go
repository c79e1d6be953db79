// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"loadrec/internal/modules/aiusage"
	"loadrec/internal/modules/feedback"
	"loadrec/internal/modules/load"
	"loadrec/internal/service"
)

// tokensHeader reports the caller's remaining monthly AI allowance.
const tokensHeader = "X-AI-Tokens-Remaining"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeLoadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, load.ErrMissingField),
		errors.Is(err, load.ErrInvalidRate),
		errors.Is(err, load.ErrInvalidWeight):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, load.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writeRecommendError maps recommender failures; aiFailure is the message
// shown when the LLM itself failed.
func writeRecommendError(c *gin.Context, err error, aiFailure string) {
	switch {
	case errors.Is(err, service.ErrNoLoads), errors.Is(err, service.ErrNoSuitableLoads):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyQuestion):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, aiFailure)
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeFeedbackError(c *gin.Context, err error) {
	if errors.Is(err, feedback.ErrBadRequest) {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal error")
}

func setTokensLeft(c *gin.Context, left int) {
	if left >= 0 {
		c.Header(tokensHeader, fmt.Sprint(left))
	}
}
