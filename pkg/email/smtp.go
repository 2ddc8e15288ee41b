package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"math_arena_backend/internal/config"
)

type SMTPClient struct {
	config *config.SMTPConfig
}

func NewSMTPClient(cfg *config.SMTPConfig) *SMTPClient {
	return &SMTPClient{
		config: cfg,
	}
}

type EmailData struct {
	To      string
	Subject string
	Body    string
}

func (c *SMTPClient) SendEmail(data EmailData) error {
	var auth smtp.Auth
	if c.config.Username != "" || c.config.Password != "" {
		auth = smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	}

	msg := c.buildMessage(data)

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	err := smtp.SendMail(addr, auth, c.config.From, []string{data.To}, []byte(msg))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (c *SMTPClient) buildMessage(data EmailData) string {
	msg := fmt.Sprintf("From: %s\r\n", c.config.From)
	msg += fmt.Sprintf("To: %s\r\n", data.To)
	msg += fmt.Sprintf("Subject: %s\r\n", data.Subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += data.Body

	return msg
}

// SendConfirmation mails the account confirmation link issued at sign-up.
func (c *SMTPClient) SendConfirmation(emailAddr, confirmURL string) error {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background: #4f46e5; color: #fff; border-radius: 6px; text-decoration: none; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Math Arena - Confirm your account</h2>
        <p>Thanks for signing up. Click the button below to confirm your email address and activate your account.</p>
        <p><a class="button" href="{{.ConfirmURL}}">Confirm Email</a></p>
        <p>Or open this link: {{.ConfirmURL}}</p>
        <div class="footer">
            <p>If you didn't create an account, please ignore this email.</p>
        </div>
    </div>
</body>
</html>
`

	t, err := template.New("confirm_account").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"ConfirmURL": confirmURL}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return c.SendEmail(EmailData{
		To:      emailAddr,
		Subject: "Math Arena - Confirm your account",
		Body:    body.String(),
	})
}
