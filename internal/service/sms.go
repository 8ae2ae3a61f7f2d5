package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/metrics"
)

// Twilio error codes with a dedicated message
const (
	twilioInvalidToNumber    = 21211
	twilioUnreachableCountry = 21614
)

// SMSService sends verification codes through Twilio
type SMSService struct {
	messages   MessageCreator
	from       string
	serviceSID string
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// NewSMSService creates an SMSService. When from is empty the messaging
// service SID is used as the sender.
func NewSMSService(messages MessageCreator, from, serviceSID string, collector *metrics.Collector, logger *zap.Logger) *SMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMSService{
		messages:   messages,
		from:       from,
		serviceSID: serviceSID,
		metrics:    collector,
		logger:     logger.Named("sms"),
	}
}

// NewTwilioSMSService builds an SMSService on the Twilio REST client
func NewTwilioSMSService(accountSID, authToken, from, serviceSID string, collector *metrics.Collector, logger *zap.Logger) *SMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMSService(client.Api, from, serviceSID, collector, logger)
}

// SendVerificationCode texts the code to phoneNumber and returns the message SID
func (s *SMSService) SendVerificationCode(ctx context.Context, phoneNumber, code string) (string, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	code = strings.TrimSpace(code)
	if phoneNumber == "" || code == "" {
		return "", apperrors.NewBadRequestError(msgSMSFieldsRequired)
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewServiceUnavailableError(msgSMSUnavailable, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(phoneNumber)
	params.SetBody(fmt.Sprintf(smsBodyTemplate, code))
	if s.from != "" {
		params.SetFrom(s.from)
	} else {
		params.SetMessagingServiceSid(s.serviceSID)
	}

	msg, err := s.messages.CreateMessage(params)
	s.metrics.ObserveStage(metrics.StageSMS, err == nil)
	if err != nil {
		s.logger.Error("verification SMS failed", zap.Error(err))
		return "", mapTwilioError(err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.Info("verification SMS sent", zap.String("message_sid", sid))
	return sid, nil
}

func mapTwilioError(err error) error {
	var restErr *twclient.TwilioRestError
	if !errors.As(err, &restErr) {
		return apperrors.NewInternalError(msgSMSFailed, err)
	}

	switch restErr.Code {
	case twilioInvalidToNumber:
		return apperrors.NewBadRequestError(msgInvalidPhone)
	case twilioUnreachableCountry:
		return apperrors.NewBadRequestError(msgPhoneNotSupported)
	}
	message := restErr.Message
	if message == "" {
		message = msgSMSFailed
	}
	return apperrors.NewInternalError(message, err)
}
