package delivery

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers voice notes as email attachments over SMTP.
type EmailSender struct {
	host string
	port int
	user string
	pass string
}

func NewEmailSender(host string, port int, user, pass string) *EmailSender {
	return &EmailSender{host: host, port: port, user: user, pass: pass}
}

func (e *EmailSender) Channel() Channel { return ChannelEmail }

func (e *EmailSender) Send(ctx context.Context, req Request, audio AudioRef) (Outcome, error) {
	if err := validateEmail(req.Destination); err != nil {
		return Outcome{Detail: fmt.Sprintf("invalid email address %q", req.Destination)}, err
	}

	if e.user == "" || e.pass == "" {
		return Outcome{
			Success:   true,
			Simulated: true,
			Detail:    fmt.Sprintf("email credentials not configured; would have sent voice note to %s via email", req.Destination),
		}, nil
	}

	body := req.Message
	if body == "" {
		body = "Please find attached your daily weather update and motivational message as a voice note."
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.user)
	m.SetHeader("To", req.Destination)
	m.SetHeader("Subject", "Your Daily Weather & Motivation Voice Note")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>%s</p><p><a href=%q>Listen to your voice note</a></p>", body, audio.URL))
	m.Attach(audio.Path, gomail.Rename("weather-motivation.mp3"))

	d := gomail.NewDialer(e.host, e.port, e.user, e.pass)
	if err := d.DialAndSend(m); err != nil {
		return Outcome{Detail: fmt.Sprintf("failed to send email to %s", req.Destination)},
			fmt.Errorf("%w: email: %v", ErrDeliveryFailed, err)
	}

	return Outcome{
		Success: true,
		Detail:  fmt.Sprintf("voice note sent to %s via email", req.Destination),
	}, nil
}
