package service

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sirupsen/logrus"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	adminEmail   string
	send         func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	service := &EmailService{
		smtpHost:     cfg.Host,
		smtpPort:     cfg.Port,
		smtpUsername: cfg.Username,
		smtpPassword: cfg.Password,
		fromEmail:    cfg.From,
		fromName:     cfg.FromName,
		adminEmail:   cfg.AdminEmail,
		send:         smtp.SendMail,
	}

	logger.InfoLogger.WithFields(logrus.Fields{
		"smtp_host":   service.smtpHost,
		"admin_email": service.adminEmail,
	}).Debug("email service initialized")

	return service
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient for %q", subject)
	}

	// Without SMTP the message is only logged.
	if s.smtpHost == "" || s.smtpPort == "" {
		logger.InfoLogger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, email not sent")
		logger.InfoLogger.Debug(body)
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendPasswordResetEmail(user *models.User, resetURL string) error {
	subject := "Restablece tu contraseña"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<p>Hemos recibido una solicitud para restablecer la contraseña de %s.</p>
	<p><a href="%s">Restablecer contraseña</a></p>
	<p style="color: #666; font-size: 12px;">El enlace caduca en una hora. Si no lo has solicitado, ignora este mensaje.</p>
</body>
</html>
`, subject, html.EscapeString(user.Email), html.EscapeString(resetURL))

	return s.SendEmail(user.Email, subject, body)
}

// SendReservationNotification tells the restaurant a new request arrived.
func (s *EmailService) SendReservationNotification(reservation *models.Reservation) error {
	toEmail := s.adminEmail
	if toEmail == "" {
		toEmail = s.fromEmail
	}

	caser := cases.Title(language.Spanish)
	subject := fmt.Sprintf("Nueva reserva: %s, %s %s", caser.String(reservation.Name), reservation.Date, reservation.Time)

	notes := "-"
	if reservation.Notes != nil {
		notes = strings.ReplaceAll(html.EscapeString(*reservation.Notes), "\n", "<br>")
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Nueva reserva</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h2>Nueva reserva pendiente</h2>
	<ul>
		<li><strong>Nombre:</strong> %s</li>
		<li><strong>Email:</strong> %s</li>
		<li><strong>Teléfono:</strong> %s</li>
		<li><strong>Fecha:</strong> %s</li>
		<li><strong>Hora:</strong> %s</li>
		<li><strong>Comensales:</strong> %d</li>
	</ul>
	<p><strong>Notas:</strong> %s</p>
	<p style="font-size: 12px; color: #666;">Reserva %s</p>
</body>
</html>
`,
		html.EscapeString(reservation.Name),
		html.EscapeString(reservation.Email),
		html.EscapeString(reservation.Phone),
		reservation.Date,
		reservation.Time,
		reservation.Guests,
		notes,
		reservation.ID,
	)

	return s.SendEmail(toEmail, subject, body)
}
