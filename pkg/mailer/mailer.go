package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-disaster-management/config"

	"github.com/sirupsen/logrus"
)

// Mailer delivers transactional mail. The provider itself is an external
// collaborator; only its interface lives here.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// HTTPMailer posts messages to a token-authenticated JSON mail API.
type HTTPMailer struct {
	config config.MailConfig
	client *http.Client
	log    *logrus.Logger
}

func NewHTTPMailer(cfg config.MailConfig, log *logrus.Logger) *HTTPMailer {
	return &HTTPMailer{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (m *HTTPMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	return m.send(ctx, message{
		From:    m.config.Sender,
		To:      to,
		Subject: "Verify your email",
		Text:    fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 24 hours.", name, code),
	})
}

func (m *HTTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return m.send(ctx, message{
		From:    m.config.Sender,
		To:      to,
		Subject: "Reset your password",
		Text:    fmt.Sprintf("Hi %s,\n\nReset your password here: %s\n\nThe link expires in 1 hour.", name, resetURL),
	})
}

func (m *HTTPMailer) send(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.Token)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used in dev and
// tests.
type LogMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	m.log.WithFields(logrus.Fields{"to": to, "code": code}).Info("verification code mail")
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	m.log.WithFields(logrus.Fields{"to": to, "reset_url": resetURL}).Info("password reset mail")
	return nil
}
