// README: API gateway; builds the gin engine, middleware chain and route table.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadrec/internal/http/handlers"
	"loadrec/internal/http/middleware"
	"loadrec/internal/infra"
	"loadrec/internal/modules/feedback"
	"loadrec/internal/modules/load"
	"loadrec/internal/service"
)

type ServerDeps struct {
	Recommender *service.Recommender
	Loads       *load.Service
	Feedback    *feedback.Service
	// Verifier enables Firebase auth on /api/v1 when non-nil.
	Verifier       infra.TokenVerifier
	FrontendOrigin string
}

type Server struct {
	recommendations *handlers.RecommendationHandler
	agent           *handlers.AgentHandler
	feedback        *handlers.FeedbackHandler
	loads           *handlers.LoadHandler
	verifier        infra.TokenVerifier
	frontendOrigin  string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		recommendations: handlers.NewRecommendationHandler(deps.Recommender),
		agent:           handlers.NewAgentHandler(deps.Recommender),
		feedback:        handlers.NewFeedbackHandler(deps.Feedback),
		loads:           handlers.NewLoadHandler(deps.Loads),
		verifier:        deps.Verifier,
		frontendOrigin:  deps.FrontendOrigin,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(s.frontendOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Logistics AI API!"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group("/api/v1")
	if s.verifier != nil {
		api.Use(middleware.Auth(s.verifier))
	}

	rec := api.Group("/recommendations")
	rec.POST("/recommend", s.recommendations.Recommend)
	rec.POST("/recommend/summary", s.recommendations.Summary)

	api.POST("/agent/ask-agent", s.agent.Ask)
	api.POST("/feedback/feedback", s.feedback.Record)

	loads := api.Group("/load")
	loads.POST("/add-load", s.loads.Add)
	loads.POST("/upload", s.loads.Upload)

	api.DELETE("/delete-load/loads/:load_id", s.loads.Delete)

	return r
}
