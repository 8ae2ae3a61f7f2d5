package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/mocks"
)

func TestSendVerificationCode(t *testing.T) {
	creator := new(mocks.MockMessageCreator)
	sid := "SM123"
	creator.On("CreateMessage", mock.MatchedBy(func(p *openapi.CreateMessageParams) bool {
		return *p.To == "+33612345678" &&
			*p.From == "+15550001111" &&
			p.MessagingServiceSid == nil &&
			*p.Body == "Votre code de vérification NutriScan est : 123456. Ce code expire dans 10 minutes."
	})).Return(&openapi.ApiV2010Message{Sid: &sid}, nil)

	svc := NewSMSService(creator, "+15550001111", "", nil, nil)
	got, err := svc.SendVerificationCode(context.Background(), " +33612345678 ", "123456")
	require.NoError(t, err)
	assert.Equal(t, "SM123", got)
	creator.AssertExpectations(t)
}

func TestSendVerificationCodeUsesMessagingService(t *testing.T) {
	creator := new(mocks.MockMessageCreator)
	creator.On("CreateMessage", mock.MatchedBy(func(p *openapi.CreateMessageParams) bool {
		return p.From == nil && *p.MessagingServiceSid == "MG42"
	})).Return(&openapi.ApiV2010Message{}, nil)

	svc := NewSMSService(creator, "", "MG42", nil, nil)
	_, err := svc.SendVerificationCode(context.Background(), "+33612345678", "000000")
	require.NoError(t, err)
	creator.AssertExpectations(t)
}

func TestSendVerificationCodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "invalid number", err: &twclient.TwilioRestError{Code: 21211, Message: "invalid To", Status: 400}, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidPhone},
		{name: "unsupported country", err: &twclient.TwilioRestError{Code: 21614, Message: "not mobile", Status: 400}, wantStatus: http.StatusBadRequest, wantMsg: msgPhoneNotSupported},
		{name: "other provider error", err: &twclient.TwilioRestError{Code: 20003, Message: "Authenticate", Status: 401}, wantStatus: http.StatusInternalServerError, wantMsg: "Authenticate"},
		{name: "transport error", err: errors.New("dial tcp: timeout"), wantStatus: http.StatusInternalServerError, wantMsg: msgSMSFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := new(mocks.MockMessageCreator)
			creator.On("CreateMessage", mock.Anything).Return(nil, tt.err)

			_, err := NewSMSService(creator, "+15550001111", "", nil, nil).
				SendVerificationCode(context.Background(), "+33612345678", "123456")
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestSendVerificationCodeRequiresFields(t *testing.T) {
	creator := new(mocks.MockMessageCreator)
	svc := NewSMSService(creator, "+15550001111", "", nil, nil)

	_, err := svc.SendVerificationCode(context.Background(), "", "123456")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	_, err = svc.SendVerificationCode(context.Background(), "+33612345678", " ")
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	creator.AssertNotCalled(t, "CreateMessage", mock.Anything)
}
