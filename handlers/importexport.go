package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	contenthandler "github.com/folio/folio/backend/api/internal/content/handler"
	"github.com/folio/folio/backend/api/internal/portability"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ImportRequest is a bundle plus the flag asking to wipe existing content
// first.
type ImportRequest struct {
	portability.IncomingBundle
	ClearExisting bool `json:"clearExisting"`
}

type ImportExportHandler struct {
	svc *portability.Service
	now func() time.Time
}

func NewImportExportHandler(svc *portability.Service) *ImportExportHandler {
	return &ImportExportHandler{svc: svc, now: time.Now}
}

func (h *ImportExportHandler) Register(rg gin.IRouter, auth gin.HandlerFunc) {
	g := rg.Group("/import-export", auth)
	g.GET("/export", h.Export)
	g.GET("/export-frontend", h.ExportFrontend)
	g.POST("/import", h.Import)
	g.GET("/summary", h.Summary)
}

func (h *ImportExportHandler) Export(c *gin.Context) {
	b, err := h.svc.Export(c.Request.Context())
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	h.attach(c, "portfolio-export", b)
}

func (h *ImportExportHandler) ExportFrontend(c *gin.Context) {
	b, err := h.svc.ExportFrontend(c.Request.Context())
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	h.attach(c, "frontend-content", b)
}

func (h *ImportExportHandler) attach(c *gin.Context, prefix string, b *portability.Bundle) {
	body, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	name := prefix + "-" + h.now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Import always answers 200 with the ledger once the bundle parses; per
// collection failures are listed, not raised.
func (h *ImportExportHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import bundle: " + err.Error()})
		return
	}
	if req.Data == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import bundle: missing data"})
		return
	}
	wipe := req.ClearExisting
	if q, ok := c.GetQuery("clearExisting"); ok {
		if v, err := strconv.ParseBool(q); err == nil {
			wipe = wipe || v
		}
	}
	res := h.svc.Import(c.Request.Context(), &req.IncomingBundle, wipe)
	logger.Infof("import finished: %d succeeded, %d failed", len(res.Success), len(res.Failed))
	c.JSON(http.StatusOK, res)
}

func (h *ImportExportHandler) Summary(c *gin.Context) {
	counts, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
