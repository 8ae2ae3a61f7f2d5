package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/config"
	"github.com/pageza/nutriscan/backend/internal/api"
	"github.com/pageza/nutriscan/backend/internal/metrics"
	"github.com/pageza/nutriscan/backend/internal/router"
	"github.com/pageza/nutriscan/backend/internal/service"
)

// Dependencies are the long-lived provider handles shared by all requests
type Dependencies struct {
	// Objects is the storage bucket client; nil disables durable image storage
	Objects service.ObjectStorageAPI
	// Messages overrides the Twilio client built from the configuration
	Messages service.MessageCreator
	Metrics  *metrics.Collector
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires the services, handlers and router for cfg
func New(cfg *config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	extractor := service.NewLLMService(service.LLMConfig{
		APIKey:  cfg.OpenAIAPIKey,
		OrgID:   cfg.OpenAIOrgID,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ChatModel,
		Timeout: cfg.CompletionTimeout,
	}, logger)

	images := service.NewImageService(service.ImageConfig{
		APIKey:  cfg.OpenAIAPIKey,
		OrgID:   cfg.OpenAIOrgID,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ImageModel,
		Timeout: cfg.ImageTimeout,
	}, logger)

	var store service.ImageStorer
	if cfg.StorageEnabled && deps.Objects != nil {
		store = service.NewImageStore(deps.Objects, service.ImageStoreConfig{
			Bucket:        cfg.StorageBucket,
			PublicBaseURL: cfg.PublicObjectBaseURL(),
			Timeout:       cfg.StorageTimeout,
			VerifyUploads: cfg.VerifyUploads,
		}, logger)
	}

	pipeline := service.NewRecipePipeline(extractor, images, store, deps.Metrics, logger)

	var sender api.VerificationSender
	switch {
	case deps.Messages != nil:
		sender = service.NewSMSService(deps.Messages, cfg.TwilioPhoneNumber, cfg.TwilioServiceSID, deps.Metrics, logger)
	case cfg.SMSEnabled():
		sender = service.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
			cfg.TwilioPhoneNumber, cfg.TwilioServiceSID, deps.Metrics, logger)
	default:
		logger.Warn("Twilio credentials not found, SMS endpoint disabled")
	}

	smsHandler := api.NewSMSHandler(sender)
	engine := router.SetupRouter(
		api.NewRecipeHandler(pipeline, logger),
		smsHandler,
		api.NewHealthHandler(pipeline.StorageEnabled(), smsHandler.Enabled()),
		router.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			MaxBodyBytes:   cfg.MaxBodyBytes,
			Logger:         logger,
			Metrics:        deps.Metrics,
		},
	)

	return &Server{
		router: engine,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			// A full generation runs every outbound stage in sequence
			WriteTimeout: cfg.CompletionTimeout + cfg.ImageTimeout + cfg.StorageTimeout + 30*time.Second,
			IdleTimeout:  2 * time.Minute,
		},
	}
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
