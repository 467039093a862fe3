package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/careercompass/compass/internal/pkg/errcode"
	"github.com/careercompass/compass/internal/pkg/response"
	"github.com/careercompass/compass/internal/service"
)

// maxTranscriptSize caps transcript uploads at 20 MiB.
const maxTranscriptSize = 20 << 20

type ChatHandler struct {
	ingest *service.IngestService
	chat   *service.ChatService
}

func NewChatHandler(ingest *service.IngestService, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{ingest: ingest, chat: chat}
}

type chatRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

func (h *ChatHandler) UploadTranscript(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if file.Size > maxTranscriptSize {
		response.Error(c, errcode.ErrInvalidFile, "file too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()
	data, err := io.ReadAll(io.LimitReader(opened, maxTranscriptSize+1))
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to read file")
		return
	}
	contentType := file.Header.Get("Content-Type")

	summary, err := h.ingest.ProcessTranscript(c.Request.Context(), getUserID(c), file.Filename, contentType, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.chat.Query(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
