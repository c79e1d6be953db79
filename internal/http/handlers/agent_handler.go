// README: AI agent handler (quota-guarded logistics Q&A).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadrec/internal/http/middleware"
	"loadrec/internal/service"
)

type AgentHandler struct {
	rec *service.Recommender
}

func NewAgentHandler(rec *service.Recommender) *AgentHandler {
	return &AgentHandler{rec: rec}
}

type askReq struct {
	Question string `json:"question"`
}

// Ask handles POST /api/v1/agent/ask-agent.
func (h *AgentHandler) Ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	reply, err := h.rec.Ask(c.Request.Context(), middleware.Caller(c), req.Question)
	if err != nil {
		writeRecommendError(c, err, "Failed to get an answer from the AI agent. Please check server logs.")
		return
	}
	setTokensLeft(c, reply.TokensLeft)
	writeJSON(c, http.StatusOK, gin.H{"answer": reply.Text})
}
