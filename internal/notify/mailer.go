package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// BookingMail carries the fields the mail gateway templates need for
// confirmation and reminder mails.
type BookingMail struct {
	To          string `json:"to"`
	ClinicName  string `json:"clinicName"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Mailer is the outbound notification collaborator. Implementations
// must be safe to call after a booking succeeded: a send failure is the
// caller's to log, never to surface to the patient.
type Mailer interface {
	SendConfirmation(ctx context.Context, m BookingMail) error
	SendReminder(ctx context.Context, m BookingMail) error
}

// GatewayMailer posts mail jobs to the SaaS mail gateway.
type GatewayMailer struct {
	client *resty.Client
	logger *zap.Logger
}

func NewGatewayMailer(baseURL, token string, logger *zap.Logger) *GatewayMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}

	return &GatewayMailer{
		client: client,
		logger: logger,
	}
}

func (g *GatewayMailer) SendConfirmation(ctx context.Context, m BookingMail) error {
	return g.post(ctx, "/mail/booking-confirmation", m)
}

func (g *GatewayMailer) SendReminder(ctx context.Context, m BookingMail) error {
	return g.post(ctx, "/mail/booking-reminder", m)
}

func (g *GatewayMailer) post(ctx context.Context, path string, m BookingMail) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(m).
		Post(path)
	if err != nil {
		return fmt.Errorf("mail gateway %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail gateway %s: status %d", path, resp.StatusCode())
	}

	g.logger.Debug("mail queued",
		zap.String("path", path),
		zap.String("to", m.To))
	return nil
}

// NopMailer drops all mail. Default when no gateway is configured.
type NopMailer struct{}

func (NopMailer) SendConfirmation(ctx context.Context, m BookingMail) error { return nil }
func (NopMailer) SendReminder(ctx context.Context, m BookingMail) error     { return nil }
