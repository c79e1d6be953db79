// README: Recommendation handlers (scored loads and AI summary).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadrec/internal/http/middleware"
	"loadrec/internal/modules/scoring"
	"loadrec/internal/service"
)

type RecommendationHandler struct {
	rec *service.Recommender
}

func NewRecommendationHandler(rec *service.Recommender) *RecommendationHandler {
	return &RecommendationHandler{rec: rec}
}

// truckReq lets an empty location through; the scorer answers it with no
// recommendations rather than a validation error.
type truckReq struct {
	Location *string  `json:"location" binding:"required"`
	Capacity *float64 `json:"capacity" binding:"required"`
}

func (r truckReq) truck() scoring.Truck {
	return scoring.Truck{Location: *r.Location, Capacity: *r.Capacity}
}

// Recommend handles POST /api/v1/recommendations/recommend.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req truckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "location and capacity are required")
		return
	}

	scored, err := h.rec.Recommend(c.Request.Context(), req.truck())
	if err != nil {
		writeRecommendError(c, err, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, scored)
}

// Summary handles POST /api/v1/recommendations/recommend/summary.
func (h *RecommendationHandler) Summary(c *gin.Context) {
	var req truckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "location and capacity are required")
		return
	}

	reply, err := h.rec.Summary(c.Request.Context(), middleware.Caller(c), req.truck())
	if err != nil {
		writeRecommendError(c, err, "AI summary generation failed. Please check logs.")
		return
	}
	setTokensLeft(c, reply.TokensLeft)
	writeJSON(c, http.StatusOK, gin.H{"summary": reply.Text})
}
