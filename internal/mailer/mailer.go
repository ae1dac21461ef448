// Package mailer sends transactional email. Delivery is best effort; a
// failed send is logged and never fails the originating request.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendWelcomeEmail(toEmail, firstName string) error
}

type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendWelcomeEmail(toEmail, firstName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to the car marketplace")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour account has been created. You can now list your car for sale.\n", firstName))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}

// NoopMailer is used when no SMTP credentials are configured.
type NoopMailer struct{}

func (NoopMailer) SendWelcomeEmail(string, string) error { return nil }
