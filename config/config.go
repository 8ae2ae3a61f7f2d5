package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultMaxBodyBytes accommodates inline base64 photos
const DefaultMaxBodyBytes = 15 << 20

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost     string
	ServerPort     string
	MaxBodyBytes   int64
	AllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// OpenAI configuration, shared by completion and image generation
	OpenAIAPIKey      string
	OpenAIOrgID       string
	OpenAIBaseURL     string
	ChatModel         string
	ImageModel        string
	CompletionTimeout time.Duration
	ImageTimeout      time.Duration

	// Supabase storage configuration
	StorageEnabled    bool
	SupabaseURL       string
	SupabaseAnonKey   string
	StorageBucket     string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	StorageTimeout    time.Duration
	VerifyUploads     bool

	// Twilio configuration
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	TwilioServiceSID  string
}

// LoadConfig reads an optional .env file, then the environment, and validates the result
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := fromViper(newViper())

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "3000")
	v.SetDefault("max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_chat_model", "gpt-4o-mini")
	v.SetDefault("openai_image_model", "dall-e-3")
	v.SetDefault("completion_timeout", 60*time.Second)
	v.SetDefault("image_timeout", 90*time.Second)
	v.SetDefault("storage_timeout", 30*time.Second)
	v.SetDefault("image_storage_enabled", true)
	v.SetDefault("supabase_bucket", "recipe-images")
	v.SetDefault("supabase_s3_region", "us-east-1")
	v.SetDefault("storage_verify_uploads", false)

	// The mobile app's env file uses the EXPO_PUBLIC_ prefix
	_ = v.BindEnv("supabase_url", "SUPABASE_URL", "EXPO_PUBLIC_SUPABASE_URL")
	_ = v.BindEnv("supabase_anon_key", "SUPABASE_ANON_KEY", "EXPO_PUBLIC_SUPABASE_ANON_KEY")

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Environment:       GetEnvironment(),
		ServerHost:        v.GetString("server_host"),
		ServerPort:        v.GetString("server_port"),
		MaxBodyBytes:      v.GetInt64("max_body_bytes"),
		AllowedOrigins:    splitList(v.GetString("cors_allowed_origins")),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		OpenAIAPIKey:      secretValue(v, "openai_api_key"),
		OpenAIOrgID:       v.GetString("openai_org_id"),
		OpenAIBaseURL:     v.GetString("openai_base_url"),
		ChatModel:         v.GetString("openai_chat_model"),
		ImageModel:        v.GetString("openai_image_model"),
		CompletionTimeout: v.GetDuration("completion_timeout"),
		ImageTimeout:      v.GetDuration("image_timeout"),
		StorageEnabled:    v.GetBool("image_storage_enabled"),
		SupabaseURL:       strings.TrimRight(v.GetString("supabase_url"), "/"),
		SupabaseAnonKey:   secretValue(v, "supabase_anon_key"),
		StorageBucket:     v.GetString("supabase_bucket"),
		S3Region:          v.GetString("supabase_s3_region"),
		S3AccessKeyID:     secretValue(v, "supabase_s3_access_key_id"),
		S3SecretAccessKey: secretValue(v, "supabase_s3_secret_access_key"),
		StorageTimeout:    v.GetDuration("storage_timeout"),
		VerifyUploads:     v.GetBool("storage_verify_uploads"),
		TwilioAccountSID:  v.GetString("twilio_account_sid"),
		TwilioAuthToken:   secretValue(v, "twilio_auth_token"),
		TwilioPhoneNumber: v.GetString("twilio_phone_number"),
		TwilioServiceSID:  v.GetString("twilio_service_sid"),
	}
}

// SMSEnabled reports whether Twilio credentials and a sender are configured
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		(c.TwilioPhoneNumber != "" || c.TwilioServiceSID != "")
}

// Address returns the listen address of the HTTP server
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// StorageEndpoint returns the S3-compatible endpoint of the Supabase project
func (c *Config) StorageEndpoint() string {
	return c.SupabaseURL + "/storage/v1/s3"
}

// PublicObjectBaseURL returns the prefix of public object URLs in the bucket
func (c *Config) PublicObjectBaseURL() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s", c.SupabaseURL, c.StorageBucket)
}

// ProjectRef extracts the project reference from the Supabase URL
// (https://<ref>.supabase.co)
func (c *Config) ProjectRef() string {
	u, err := url.Parse(c.SupabaseURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// secretValue reads a value from the environment, then from <NAME>_FILE,
// then from the Docker secrets directory
func secretValue(v *viper.Viper, key string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	if path := os.Getenv(strings.ToUpper(key) + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
