package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"gopkg.in/mail.v2"
)

//go:embed "templates"
var templateFS embed.FS

// Mailer holds a mail.Dialer used to connect to the SMTP server and the sender
// information for emails (such as "Libraria <no-reply@libraria.local>").
type Mailer struct {
	dialer   *mail.Dialer
	sender   string
	attempts int
}

// New initializes a mail.Dialer with the given SMTP server settings and a
// 5-second timeout.
func New(host string, port int, username, password, sender string) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second
	return &Mailer{
		dialer:   dialer,
		sender:   sender,
		attempts: 3,
	}
}

// Render executes the "subject", "plainBody" and "htmlBody" templates
// defined in templateFile.
func Render(templateFile string, data any) (subject, plainBody, htmlBody string, err error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}
	parts := make([]string, 3)
	for i, name := range []string{"subject", "plainBody", "htmlBody"} {
		buf := new(bytes.Buffer)
		if err := tmpl.ExecuteTemplate(buf, name, data); err != nil {
			return "", "", "", err
		}
		parts[i] = buf.String()
	}
	return parts[0], parts[1], parts[2], nil
}

// Send renders templateFile with data and delivers it to recipient, retrying
// up to three times with a one second pause between attempts.
func (m *Mailer) Send(recipient, templateFile string, data any) error {
	subject, plainBody, htmlBody, err := Render(templateFile, data)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)
	for i := 1; i <= m.attempts; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		if i < m.attempts {
			time.Sleep(time.Second)
		}
	}
	return err
}
