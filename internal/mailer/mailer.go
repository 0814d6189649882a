package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"ministryhub/internal/model"
)

var ErrNotConfigured = errors.New("email service not configured")

// MinistryName returns the display name for a ministry identifier.
func MinistryName(ministryType string) string {
	if name, ok := model.Ministries[ministryType]; ok {
		return name
	}
	return ministryType
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	// OperatorAddress receives every registration notification.
	OperatorAddress string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	log  *zerolog.Logger
	send sendFunc
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.OperatorAddress == "" {
		cfg.OperatorAddress = cfg.User
	}
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (m *Mailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Password != "" && m.cfg.OperatorAddress != ""
}

// SendRegistrationNotification mails the operator a summary of reg.
func (m *Mailer) SendRegistrationNotification(reg model.Registration) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg, err := BuildRegistrationMessage(m.cfg.User, m.cfg.OperatorAddress, reg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	if err := m.send(addr, auth, m.cfg.User, []string{m.cfg.OperatorAddress}, msg); err != nil {
		m.log.Warn().Err(err).Str("ministry", reg.MinistryType).Msg("failed to send registration notification")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().
		Str("ministry", reg.MinistryType).
		Str("registration_id", reg.ID).
		Msg("📧 Registration notification sent")
	return nil
}

var bodyTmpl = template.Must(template.New("registration").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1e40af; border-bottom: 3px solid #ec4899; padding-bottom: 10px;">New Registration Received</h2>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #1e40af; margin-top: 0;">Ministry Program</h3>
    <p style="font-size: 18px; font-weight: bold; color: #374151;">{{.Ministry}}</p>
  </div>
  <h3 style="color: #1e40af;">Participant Details</h3>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 10px; font-weight: bold; width: 30%;">Full Name:</td><td style="padding: 10px;">{{.Reg.FullName}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Email:</td><td style="padding: 10px;">{{.Reg.Email}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Phone:</td><td style="padding: 10px;">{{.Reg.Phone}}</td></tr>
    {{- if .Message}}
    <tr><td style="padding: 10px; font-weight: bold; vertical-align: top;">Message:</td><td style="padding: 10px;">{{.Message}}</td></tr>
    {{- end}}
  </table>
  <div style="background-color: #eff6ff; padding: 15px; border-left: 4px solid #1e40af; margin: 20px 0;">
    <p style="margin: 0; color: #1e40af;"><strong>Action Required:</strong> Please follow up with this participant to confirm their registration.</p>
  </div>
  <p style="color: #6b7280; font-size: 12px;">This is an automated notification from your ministry website registration system.</p>
</div>
`))

// BuildRegistrationMessage renders the full RFC 5322 message, headers included.
func BuildRegistrationMessage(from, to string, reg model.Registration) ([]byte, error) {
	data := struct {
		Ministry string
		Reg      model.Registration
		Message  string
	}{
		Ministry: MinistryName(reg.MinistryType),
		Reg:      reg,
	}
	if reg.Message != nil {
		data.Message = strings.TrimSpace(*reg.Message)
	}

	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render notification: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: New Registration: %s\r\n", data.Ministry)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
