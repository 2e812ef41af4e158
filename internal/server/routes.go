package server

import (
	"github.com/gin-gonic/gin"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", s.handleHealth)
	v1.GET("/rules", s.handleRules)
	v1.GET("/profiles", s.handleProfiles)
	v1.POST("/validate", s.handleValidate)
}
