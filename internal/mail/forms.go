package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// ContactForm is a message from the public contact page.
type ContactForm struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Subject string `json:"subject" validate:"max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

// QuoteRequest asks for a price on one of the listed services.
type QuoteRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Company  string `json:"company" validate:"max=200"`
	Service  string `json:"service" validate:"required,max=200"`
	Budget   string `json:"budget" validate:"max=100"`
	Timeline string `json:"timeline" validate:"max=100"`
	Details  string `json:"details" validate:"required,max=10000"`
}

var templates = template.Must(template.New("mail").Parse(`
{{define "contact"}}<h2>New contact message</h2>
<p><strong>Name:</strong> {{.Name}}<br><strong>Email:</strong> {{.Email}}{{if .Phone}}<br><strong>Phone:</strong> {{.Phone}}{{end}}</p>
{{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
<p style="white-space:pre-wrap">{{.Message}}</p>{{end}}
{{define "quote"}}<h2>New quote request</h2>
<p><strong>Name:</strong> {{.Name}}<br><strong>Email:</strong> {{.Email}}{{if .Phone}}<br><strong>Phone:</strong> {{.Phone}}{{end}}{{if .Company}}<br><strong>Company:</strong> {{.Company}}{{end}}</p>
<p><strong>Service:</strong> {{.Service}}{{if .Budget}}<br><strong>Budget:</strong> {{.Budget}}{{end}}{{if .Timeline}}<br><strong>Timeline:</strong> {{.Timeline}}{{end}}</p>
<p style="white-space:pre-wrap">{{.Details}}</p>{{end}}
{{define "reply"}}<p>Hi {{.Name}},</p>
<p>Thanks for getting in touch. I received your {{.Kind}} and will reply as soon as I can.</p>
<p>{{.Site}}</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ContactNotification is the mail the site owner receives for f.
func ContactNotification(to string, f ContactForm) (Message, error) {
	html, err := render("contact", f)
	if err != nil {
		return Message{}, err
	}
	subject := "New contact message from " + f.Name
	if f.Subject != "" {
		subject = "Contact: " + f.Subject
	}
	return Message{
		To:      []string{to},
		ReplyTo: f.Email,
		Subject: subject,
		HTML:    html,
		Text:    fmt.Sprintf("%s <%s>\n\n%s", f.Name, f.Email, f.Message),
	}, nil
}

// QuoteNotification is the mail the site owner receives for q.
func QuoteNotification(to string, q QuoteRequest) (Message, error) {
	html, err := render("quote", q)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		ReplyTo: q.Email,
		Subject: "Quote request: " + q.Service,
		HTML:    html,
		Text:    fmt.Sprintf("%s <%s>\nService: %s\n\n%s", q.Name, q.Email, q.Service, q.Details),
	}, nil
}

// AutoReply acknowledges a submission to its sender. kind is "message" or
// "quote request".
func AutoReply(to, name, kind, site string) (Message, error) {
	html, err := render("reply", map[string]string{"Name": name, "Kind": kind, "Site": site})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: "Thanks for your " + kind,
		HTML:    html,
	}, nil
}
