package handlers

import (
	"net/http"
	"strings"

	contenthandler "github.com/folio/folio/backend/api/internal/content/handler"
	"github.com/folio/folio/backend/api/internal/upload"
	"github.com/gin-gonic/gin"
)

// UploadHandler stores standalone files (images, CV documents, favicons)
// that content documents later reference by URL.
type UploadHandler struct {
	pipeline *upload.Pipeline
}

func NewUploadHandler(p *upload.Pipeline) *UploadHandler {
	return &UploadHandler{pipeline: p}
}

// Register mounts /upload; every route requires auth.
func (h *UploadHandler) Register(rg gin.IRouter, auth gin.HandlerFunc) {
	u := rg.Group("/upload", auth)
	u.POST("/image", h.store(upload.Image))
	u.POST("/document", h.store(upload.Document))
	u.POST("/favicon", h.store(upload.Favicon))
	u.DELETE("/image/*publicId", h.remove(upload.Image))
	u.DELETE("/document/*publicId", h.remove(upload.Document))
}

func (h *UploadHandler) store(p upload.Purpose) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			contenthandler.RespondError(c, upload.ErrNoFile)
			return
		}
		asset, err := h.pipeline.Store(c.Request.Context(), p, fh)
		if err != nil {
			contenthandler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

func (h *UploadHandler) remove(p upload.Purpose) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := publicKey(p.Folder, c.Param("publicId"))
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "public id is required"})
			return
		}
		if err := h.pipeline.Remove(c.Request.Context(), key); err != nil {
			contenthandler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted", "public_id": key})
	}
}

// publicKey turns the wildcard segment into a storage key. A bare file name
// is taken to live in folder; anything escaping upward is rejected.
func publicKey(folder, param string) string {
	id := strings.Trim(param, "/")
	if id == "" || strings.Contains(id, "..") {
		return ""
	}
	if !strings.Contains(id, "/") {
		return folder + "/" + id
	}
	return id
}
