package handler

import (
	"errors"
	"net/http"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"github.com/folio/folio/backend/api/internal/upload"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RespondError maps service errors to a status and a gin.H{"error": ...} body.
// Anything unclassified is logged and reported as a bare 500.
func RespondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var uerr *upload.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.As(err, &uerr), errors.Is(err, upload.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "a document with the same unique value already exists"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": store.ErrConflict.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
