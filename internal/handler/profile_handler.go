package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/careercompass/compass/internal/model"
	"github.com/careercompass/compass/internal/pkg/errcode"
	"github.com/careercompass/compass/internal/pkg/response"
	"github.com/careercompass/compass/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileUpdateRequest struct {
	ManualGPA        *float64  `json:"manual_gpa"`
	ManualMajor      *string   `json:"manual_major"`
	Bio              *string   `json:"bio"`
	Hobbies          *[]string `json:"hobbies"`
	Extracurriculars *[]string `json:"extracurriculars"`
	Interests        *[]string `json:"interests"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	profile, err := h.profiles.Update(c.Request.Context(), getUserID(c), model.ProfileUpdate{
		ManualGPA:        req.ManualGPA,
		ManualMajor:      req.ManualMajor,
		Bio:              req.Bio,
		Hobbies:          req.Hobbies,
		Extracurriculars: req.Extracurriculars,
		Interests:        req.Interests,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}
