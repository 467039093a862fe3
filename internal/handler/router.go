package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careercompass/compass/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Profiles  *ProfileHandler
	Chat      *ChatHandler
	Roadmaps  *RoadmapHandler
	JWTSecret []byte
	// AIWindow throttles the AI endpoints per user; zero disables it.
	AIWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.GET("/profile", deps.Profiles.Get)
	authGroup.PUT("/profile", deps.Profiles.Update)

	authGroup.POST("/chat/upload-transcript", deps.Chat.UploadTranscript)

	aiGroup := authGroup.Group("")
	aiGroup.Use(middleware.RateLimit(deps.AIWindow))
	aiGroup.POST("/chat", deps.Chat.Chat)
	aiGroup.POST("/roadmaps/generate", deps.Roadmaps.Generate)

	authGroup.GET("/roadmaps", deps.Roadmaps.List)
	authGroup.GET("/roadmaps/:id", deps.Roadmaps.Get)
	authGroup.PATCH("/roadmaps/milestones/:id", deps.Roadmaps.UpdateMilestoneStatus)
}
