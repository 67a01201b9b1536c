package notifications

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// messageCreator is the slice of the Twilio REST API used for SMS
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	api        messageCreator
	fromNumber string
	configured bool
	logger     *zap.Logger
}

// NewTwilioService creates a new Twilio notification service.
// The service reports itself unconfigured unless the account SID, auth token and sender number are all set.
func NewTwilioService(accountSID, authToken, fromNumber string, logger *zap.Logger) *TwilioServiceImpl {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TwilioServiceImpl{
		api:        client.Api,
		fromNumber: fromNumber,
		configured: accountSID != "" && authToken != "" && fromNumber != "",
		logger:     logger,
	}
}

// IsConfigured implements domain.NotificationService
func (t *TwilioServiceImpl) IsConfigured() bool {
	return t.configured
}

// SendSMS implements domain.NotificationService. The recipient is formatted as E.164 before sending.
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if !t.configured {
		return fmt.Errorf("%w: sms provider not configured", domain.ErrDelivery)
	}

	recipient := domain.FormatE164(to)
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}

	fields := []zap.Field{zap.String("to", recipient)}
	if resp != nil && resp.Sid != nil {
		fields = append(fields, zap.String("sid", *resp.Sid))
	}
	t.logger.Debug("sms sent", fields...)
	return nil
}

var _ domain.NotificationService = (*TwilioServiceImpl)(nil)
