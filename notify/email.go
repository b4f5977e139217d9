package notify

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/linesmerrill/telehealth-api/templates/html"
)

const senderName = "Telehealth"

type sendFunc func(message *mail.SGMailV3) (status int, body string, err error)

// Mailer sends appointment notices through sendgrid
type Mailer struct {
	from *mail.Email
	send sendFunc
}

// NewMailer creates a sendgrid backed mailer
func NewMailer(apiKey, fromAddress string) *Mailer {
	client := sendgrid.NewSendClient(apiKey)
	return &Mailer{
		from: mail.NewEmail(senderName, fromAddress),
		send: func(message *mail.SGMailV3) (int, string, error) {
			response, err := client.Send(message)
			if err != nil {
				return 0, "", err
			}
			return response.StatusCode, response.Body, nil
		},
	}
}

// Send mails the event to one party
func (m *Mailer) Send(to Party, evt Event) error {
	if to.Email == "" {
		return nil
	}
	htmlContent := templates.RenderAppointmentEmail(evt.Subject, to.Name, evt.Lines)
	plainText := fmt.Sprintf("%s\n\n%s", evt.Subject, strings.Join(evt.Lines, "\n"))
	message := mail.NewSingleEmail(m.from, evt.Subject, mail.NewEmail(to.Name, to.Email), plainText, htmlContent)

	status, body, err := m.send(message)
	if err != nil {
		return err
	}
	if status >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", status, "body", body)
		return fmt.Errorf("sendgrid returned status %d", status)
	}
	return nil
}
