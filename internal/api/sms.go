package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/service"
	"github.com/pageza/nutriscan/backend/internal/types"
)

// VerificationSender sends SMS verification codes
type VerificationSender interface {
	SendVerificationCode(ctx context.Context, phoneNumber, code string) (string, error)
}

// SMSHandler handles verification SMS requests. A nil sender means SMS is
// not configured.
type SMSHandler struct {
	sender VerificationSender
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(sender VerificationSender) *SMSHandler {
	return &SMSHandler{sender: sender}
}

// RegisterRoutes registers the SMS routes
func (h *SMSHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/send-verification-sms", h.SendVerificationSMS)
}

// Enabled reports whether an SMS provider is configured
func (h *SMSHandler) Enabled() bool {
	return h.sender != nil
}

// SendVerificationSMS handles POST /api/send-verification-sms
func (h *SMSHandler) SendVerificationSMS(c *gin.Context) {
	var req types.VerificationSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, bindError(err))
		return
	}

	if !h.Enabled() {
		respondFailure(c, apperrors.NewServiceUnavailableError(service.MsgSMSUnavailable, nil))
		return
	}

	sid, err := h.sender.SendVerificationCode(c.Request.Context(), req.PhoneNumber, req.VerificationCode)
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, types.VerificationSMSResponse{Success: true, MessageSID: sid})
}
