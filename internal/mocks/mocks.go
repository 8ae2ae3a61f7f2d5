// Package mocks holds testify mocks for the service collaborators
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MockMessageCreator is a mock implementation of the Twilio messages API
type MockMessageCreator struct {
	mock.Mock
}

// CreateMessage mocks the CreateMessage method
func (m *MockMessageCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openapi.ApiV2010Message), args.Error(1)
}

// MockVerificationSender is a mock implementation of the SMS service
type MockVerificationSender struct {
	mock.Mock
}

// SendVerificationCode mocks the SendVerificationCode method
func (m *MockVerificationSender) SendVerificationCode(ctx context.Context, phoneNumber, code string) (string, error) {
	args := m.Called(ctx, phoneNumber, code)
	return args.String(0), args.Error(1)
}
