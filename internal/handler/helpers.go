package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/ai"
	"github.com/careercompass/compass/internal/middleware"
	"github.com/careercompass/compass/internal/pkg/errcode"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
	"github.com/careercompass/compass/internal/pkg/response"
	"github.com/careercompass/compass/internal/service"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	var formatErr *service.FormatError
	switch {
	case errors.As(err, &formatErr):
		response.Error(c, errcode.ErrAIBadOutput, "ai generated an invalid response, please try again")
	case errors.Is(err, ai.ErrNotConfigured):
		response.Error(c, errcode.ErrAIUnavailable, "ai not configured")
	case errors.Is(err, ai.ErrUpstream):
		response.Error(c, errcode.ErrAIUpstream, "ai provider unavailable")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
