// Package mailer sends account emails over SMTP and owns one-time code generation.
package mailer

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/smtp"

	"greetings_backend/internal/platform/config"
)

// otpLength is the number of digits in a confirmation code.
const otpLength = 6

// Mailer dispatches confirmation and password-reset emails.
// It generates the one-time code itself and hands it back to the caller,
// which is the sole owner of persisting the code and its expiry.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a Mailer from SMTP configuration.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// IsConfigured reports whether all SMTP settings required for delivery are present.
func (m *Mailer) IsConfigured() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != "" && m.cfg.From != ""
}

// GenerateOTP returns a zero-padded numeric one-time code.
func GenerateOTP() (string, error) {
	upper := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		upper.Mul(upper, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpLength, n), nil
}

// SendConfirmationEmail generates a confirmation code, mails it to the given
// address, and returns the code for the caller to persist.
func (m *Mailer) SendConfirmationEmail(_ context.Context, email string, userID uint) (string, error) {
	otp, err := GenerateOTP()
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Use the code below to confirm your email address:\n\n"+
			"Confirmation code: %s\n\n"+
			"The code expires in 15 minutes. If you did not create an account, ignore this email.\n",
		otp)

	if err := m.send(email, "Confirm your email address", body); err != nil {
		return "", fmt.Errorf("failed to send confirmation email to user %d: %w", userID, err)
	}
	return otp, nil
}

// SendPasswordResetEmail mails a password reset link to the given address.
func (m *Mailer) SendPasswordResetEmail(_ context.Context, email, resetURL string) error {
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"A password reset was requested for your account. Follow the link below to choose a new password:\n\n"+
			"%s\n\n"+
			"If you did not request a reset, ignore this email.\n",
		resetURL)

	return m.send(email, "Reset your password", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.IsConfigured() {
		// ローカル開発ではSMTP未設定のまま動かせるようにする
		slog.Warn("SMTP not configured, skipping email delivery", "to", to, "subject", subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
