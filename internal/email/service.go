package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/hirely-app/hirely-api/internal/config"
	"github.com/hirely-app/hirely-api/internal/logging"
)

// Dialer delivers composed messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Service struct {
	dialer    Dialer
	fromEmail string
}

func NewService(cfg config.EmailConfig) *Service {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewServiceWithDialer(dialer, cfg.FromAddress())
}

func NewServiceWithDialer(dialer Dialer, fromEmail string) *Service {
	return &Service{dialer: dialer, fromEmail: fromEmail}
}

// Send delivers an HTML message. The SMTP exchange itself cannot be
// cancelled, so ctx is only checked before dialing.
func (s *Service) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// SendPasswordResetCode mails the numeric reset code to the user. Callers run
// it in a goroutine with a context that outlives the request.
func (s *Service) SendPasswordResetCode(ctx context.Context, toEmail, code string, validFor int) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := renderPasswordReset(code, validFor)
	if err != nil {
		logger.Error("failed to render password reset email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.Send(ctx, toEmail, "Your Hirely password reset code", body); err != nil {
		logger.Error("failed to send password reset email", "email", toEmail, "error", err)
		return err
	}

	logger.Info("password reset email sent", "email", toEmail)
	return nil
}

var passwordResetTemplate = template.Must(template.New("passwordReset").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; max-width: 560px; margin: 0 auto; padding: 24px; }
  .brand { background: #0F766E; color: #fff; padding: 16px 24px; border-radius: 8px 8px 0 0; }
  .card { background: #f3f4f6; padding: 24px; border-radius: 0 0 8px 8px; }
  .code { font-size: 32px; letter-spacing: 8px; font-weight: 700; text-align: center; margin: 24px 0; }
  .note { font-size: 12px; color: #6b7280; text-align: center; margin-top: 24px; }
</style>
</head>
<body>
  <div class="brand"><strong>Hirely</strong></div>
  <div class="card">
    <p>Someone asked to reset the password on your Hirely account. Enter this code in the app:</p>
    <p class="code">{{.Code}}</p>
    <p>Valid for {{.ValidFor}} minutes.
    Requesting a new code cancels this one.</p>
    <p>Did not ask for this? Ignore this email and your password stays the same.</p>
  </div>
  <p class="note">Hirely job matching</p>
</body>
</html>
`))

func renderPasswordReset(code string, validFor int) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Code     string
		ValidFor int
	}{
		Code:     code,
		ValidFor: validFor,
	}

	if err := passwordResetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
