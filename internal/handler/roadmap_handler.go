package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/careercompass/compass/internal/model"
	"github.com/careercompass/compass/internal/pkg/errcode"
	"github.com/careercompass/compass/internal/pkg/response"
	"github.com/careercompass/compass/internal/service"
)

type RoadmapHandler struct {
	roadmaps *service.RoadmapService
	profiles *service.ProfileService
}

func NewRoadmapHandler(roadmaps *service.RoadmapService, profiles *service.ProfileService) *RoadmapHandler {
	return &RoadmapHandler{roadmaps: roadmaps, profiles: profiles}
}

type milestoneStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Generate builds a roadmap from the caller's stored profile. The profile
// is the single source of truth; the request carries no generation inputs.
func (h *RoadmapHandler) Generate(c *gin.Context) {
	userID := getUserID(c)
	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	result, err := h.roadmaps.Generate(c.Request.Context(), userID, service.RoadmapInput{
		TranscriptText:   profile.TranscriptText,
		Interests:        profile.Interests,
		ManualGPA:        profile.ManualGPA,
		ManualMajor:      profile.ManualMajor,
		Bio:              profile.Bio,
		Hobbies:          profile.Hobbies,
		Extracurriculars: profile.Extracurriculars,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *RoadmapHandler) List(c *gin.Context) {
	roadmaps, err := h.roadmaps.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	if roadmaps == nil {
		roadmaps = []*model.Roadmap{}
	}
	response.Success(c, gin.H{"items": roadmaps})
}

func (h *RoadmapHandler) Get(c *gin.Context) {
	result, err := h.roadmaps.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *RoadmapHandler) UpdateMilestoneStatus(c *gin.Context) {
	var req milestoneStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	milestone, err := h.roadmaps.UpdateMilestoneStatus(c.Request.Context(), getUserID(c), c.Param("id"), model.MilestoneStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, milestone)
}
