package api

import (
	"net/http"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// MediaHandler exposes demonstration media of exercises. Every endpoint
// answers 503 when object storage is not configured.
type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// RequestUploadURL godoc
// @Summary Get a presigned upload URL for exercise media
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise id"
// @Param request body service.UploadRequest true "Content type (video/* or image/*)"
// @Success 200 {object} service.UploadURLResponse
// @Failure 503 {object} ErrorDetails "Storage not configured"
// @Router /api/exercises/{id}/media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UploadRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), exerciseID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload records an object uploaded with a presigned URL.
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ConfirmUploadInput
	if !bindJSON(c, &req) {
		return
	}
	identity, _ := identityFromContext(c)
	media, err := h.mediaService.ConfirmUpload(c.Request.Context(), identity.Subject, exerciseID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

func (h *MediaHandler) ListMedia(c *gin.Context) {
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	views, err := h.mediaService.ListMedia(c.Request.Context(), exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	mediaID, ok := pathID(c, "mediaId")
	if !ok {
		return
	}
	if err := h.mediaService.DeleteMedia(c.Request.Context(), mediaID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
