package handlers

import (
	"net/http"

	"voting_app/internal/logger"
	"voting_app/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerVoteRoutes(api)
	}

	// Live results feed (HTTP upgrade) — same port
	router.GET("/ws", h.wsResults)

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.identityMiddleware, h.me)
	}
}

func (h *Handler) registerVoteRoutes(api *gin.RouterGroup) {
	vote := api.Group("/vote")
	{
		// Candidate and voter views are public; casting requires a token.
		vote.GET("/candidates", h.getCandidates)
		vote.GET("/voters", h.getVoters)
		vote.GET("/results", h.getResults)
		vote.POST("/vote", h.identityMiddleware, h.castVote)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
