package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable. Missing Twilio
// credentials only disable the SMS endpoint.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{"SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{"MAX_BODY_BYTES", "must be positive"})
	}
	if cfg.CompletionTimeout <= 0 || cfg.ImageTimeout <= 0 || cfg.StorageTimeout <= 0 {
		errs = append(errs, ValidationError{"*_TIMEOUT", "timeouts must be positive durations"})
	}

	if cfg.OpenAIAPIKey == "" {
		errs = append(errs, ValidationError{"OPENAI_API_KEY", "is required"})
	}

	if cfg.StorageEnabled {
		errs = append(errs, validateStorage(cfg)...)
	}

	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}

func validateStorage(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.SupabaseURL == "" {
		errs = append(errs, ValidationError{"SUPABASE_URL", "required when IMAGE_STORAGE_ENABLED is true"})
	} else if u, err := url.Parse(cfg.SupabaseURL); err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		errs = append(errs, ValidationError{"SUPABASE_URL", fmt.Sprintf("invalid URL %q", cfg.SupabaseURL)})
	}

	hasKeys := cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != ""
	if !hasKeys && cfg.SupabaseAnonKey == "" {
		errs = append(errs, ValidationError{"SUPABASE_ANON_KEY", "required unless S3 access keys are set"})
	}
	if cfg.StorageBucket == "" {
		errs = append(errs, ValidationError{"SUPABASE_BUCKET", "must not be empty"})
	}
	return errs
}
