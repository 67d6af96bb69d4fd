package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/folio/folio/backend/api/internal/mail"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingMailer struct {
	sent []mail.Message
	// fail makes the nth Send (1-based) return an error
	fail int
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	if len(m.sent) == m.fail {
		return errors.New("smtp down")
	}
	return nil
}

func messagesRouter(m mail.Mailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewMessagesHandler(m, "owner@example.com", "Jane Doe").Register(r.Group("/api"), passThrough)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactSend(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.ReplaceCore(core)()

	m := &recordingMailer{}
	w := postJSON(messagesRouter(m), "/api/contact/send",
		`{"name":"Ann","email":"ann@example.com","subject":"Hi","message":"Hello <b>there</b>"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, m.sent, 2)

	owner := m.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, owner.To)
	assert.Equal(t, "ann@example.com", owner.ReplyTo)
	assert.Contains(t, owner.HTML, "Hello &lt;b&gt;there&lt;/b&gt;")

	reply := m.sent[1]
	assert.Equal(t, []string{"ann@example.com"}, reply.To)
	assert.Contains(t, reply.HTML, "Jane Doe")

	assert.Equal(t, 1, logs.FilterMessage("contact message from Ann <ann@example.com>").Len(), logs.All())
}

func TestContactSendValidation(t *testing.T) {
	m := &recordingMailer{}
	w := postJSON(messagesRouter(m), "/api/contact/send", `{"name":"Ann","email":"nope","message":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
	assert.Empty(t, m.sent)
}

func TestQuoteSendNotificationFailure(t *testing.T) {
	before := testutil.ToFloat64(metrics.MailsSent.WithLabelValues("quote", "failed"))
	m := &recordingMailer{fail: 1}
	w := postJSON(messagesRouter(m), "/api/quote/send",
		`{"name":"Bo","email":"bo@example.com","service":"Web design","details":"A shop"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, m.sent, 1, "no auto-reply after a failed notification")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MailsSent.WithLabelValues("quote", "failed")))
}

func TestQuoteSendAutoReplyFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.ReplaceCore(core)()

	m := &recordingMailer{fail: 2}
	w := postJSON(messagesRouter(m), "/api/quote/send",
		`{"name":"Bo","email":"bo@example.com","service":"Web design","details":"A shop"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, m.sent, 2)
	assert.Contains(t, m.sent[0].Subject, "Web design")

	assert.Equal(t, 1, logs.FilterMessage(`quote request from Bo <bo@example.com> for "Web design"`).Len(), logs.All())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
