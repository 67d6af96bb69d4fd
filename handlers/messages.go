package handlers

import (
	"context"
	"net/http"

	contenthandler "github.com/folio/folio/backend/api/internal/content/handler"
	"github.com/folio/folio/backend/api/internal/mail"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MessagesHandler relays the public contact and quote forms to the site owner
// and acknowledges them to the sender.
type MessagesHandler struct {
	mailer    mail.Mailer
	recipient string
	site      string
}

func NewMessagesHandler(m mail.Mailer, recipient, site string) *MessagesHandler {
	return &MessagesHandler{mailer: m, recipient: recipient, site: site}
}

// Register mounts both forms; limit throttles each per client.
func (h *MessagesHandler) Register(rg gin.IRouter, limit gin.HandlerFunc) {
	rg.POST("/contact/send", limit, h.Contact)
	rg.POST("/quote/send", limit, h.Quote)
}

func (h *MessagesHandler) Contact(c *gin.Context) {
	var f mail.ContactForm
	if !bindForm(c, &f) {
		return
	}
	logger.Infof("contact message from %s <%s>", f.Name, f.Email)
	msg, err := mail.ContactNotification(h.recipient, f)
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	if !h.notify(c, "contact", msg) {
		return
	}
	h.acknowledge(c.Request.Context(), f.Email, f.Name, "message")
	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully"})
}

func (h *MessagesHandler) Quote(c *gin.Context) {
	var q mail.QuoteRequest
	if !bindForm(c, &q) {
		return
	}
	logger.Infof("quote request from %s <%s> for %q", q.Name, q.Email, q.Service)
	msg, err := mail.QuoteNotification(h.recipient, q)
	if err != nil {
		contenthandler.RespondError(c, err)
		return
	}
	if !h.notify(c, "quote", msg) {
		return
	}
	h.acknowledge(c.Request.Context(), q.Email, q.Name, "quote request")
	c.JSON(http.StatusOK, gin.H{"message": "Quote request sent successfully"})
}

func bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := models.Validate(dst); err != nil {
		contenthandler.RespondError(c, err)
		return false
	}
	return true
}

func (h *MessagesHandler) notify(c *gin.Context, kind string, msg mail.Message) bool {
	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		metrics.MailsSent.WithLabelValues(kind, "failed").Inc()
		logger.Errorf("send %s notification: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return false
	}
	metrics.MailsSent.WithLabelValues(kind, "sent").Inc()
	return true
}

// acknowledge sends the auto-reply; the sender's submission already reached
// the owner, so failures are only logged.
func (h *MessagesHandler) acknowledge(ctx context.Context, to, name, kind string) {
	msg, err := mail.AutoReply(to, name, kind, h.site)
	if err == nil {
		err = h.mailer.Send(ctx, msg)
	}
	if err != nil {
		metrics.MailsSent.WithLabelValues("auto_reply", "failed").Inc()
		logger.Warnf("auto-reply to %s: %v", to, err)
		return
	}
	metrics.MailsSent.WithLabelValues("auto_reply", "sent").Inc()
}
