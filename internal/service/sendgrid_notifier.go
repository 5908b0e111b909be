package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/vivekjindal24/university-erp/internal/models"
)

// SendgridNotifier delivers admission emails through the SendGrid API.
type SendgridNotifier struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

// NewSendgridNotifier constructs a SendGrid-backed notifier.
func NewSendgridNotifier(apiKey, fromName, fromAddress, appName string, logger zerolog.Logger) *SendgridNotifier {
	return &SendgridNotifier{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromAddress),
		subjPrefix: "[" + appName + "] ",
		logger:     logger.With().Str("component", "sendgrid_notifier").Logger(),
	}
}

func (n *SendgridNotifier) send(ctx context.Context, email Email) error {
	to := sgmail.NewEmail(email.ToName, email.ToAddress)
	message := sgmail.NewSingleEmailPlainText(n.from, n.subjPrefix+email.Subject, to, email.Body)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		n.logger.Error().Int("status", response.StatusCode).Str("body", response.Body).Msg("sendgrid rejected message")
		return fmt.Errorf("sendgrid send: status %d", response.StatusCode)
	}

	return nil
}

// SendAdmissionConfirmation sends the admission confirmation email.
func (n *SendgridNotifier) SendAdmissionConfirmation(ctx context.Context, app models.Application) error {
	return n.send(ctx, admissionConfirmationEmail(app))
}

// SendRejection sends the rejection email.
func (n *SendgridNotifier) SendRejection(ctx context.Context, app models.Application) error {
	return n.send(ctx, rejectionEmail(app))
}

// SendFeePaymentConfirmation sends the payment confirmation email.
func (n *SendgridNotifier) SendFeePaymentConfirmation(ctx context.Context, app models.Application, fee models.AdmissionFee) error {
	return n.send(ctx, feePaymentConfirmationEmail(app, fee))
}
