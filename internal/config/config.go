package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mail transports selectable with MAIL_TRANSPORT.
const (
	MailTransportStream = "stream"
	MailTransportSMTP   = "smtp"
	MailTransportSNS    = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	PublicEndpoint string // base URL used in confirm/cancel links
	EmailSender    string
	EmailInterval  time.Duration

	CoinMarketCapKey           string
	CoinMarketCapServer        string
	CoinMarketCapQuoteEndpoint string

	MailTransport string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	SNSTopicARN    string

	AllowedOrigins   []string // CORS allowed origins
	SignupRatePerSec int
	SignupBurst      int
}

// Load reads all configuration from environment variables.
// Required settings are left empty when missing; call Validate before use.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", os.Getenv("PORT")),
		AppEnv:         getEnv("APP_ENV", "development"),
		PublicEndpoint: strings.TrimRight(getEnv("PUBLIC_ENDPOINT", ""), "/"),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailInterval:  time.Duration(getEnvInt("EMAIL_INTERVAL", 0)) * time.Second,

		CoinMarketCapKey:           getEnv("COINMARKETCAP_KEY", ""),
		CoinMarketCapServer:        getEnv("COINMARKETCAP_SERVER", "https://pro-api.coinmarketcap.com"),
		CoinMarketCapQuoteEndpoint: getEnv("COINMARKETCAP_QUOTE_ENDPOINT", "v2/cryptocurrency/quotes/latest"),

		MailTransport: strings.ToLower(getEnv("MAIL_TRANSPORT", MailTransportStream)),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SNSTopicARN:    getEnv("SNS_TOPIC_ARN", ""),

		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		SignupRatePerSec: getEnvInt("SIGNUP_RATE_PER_SEC", 1),
		SignupBurst:      getEnvInt("SIGNUP_BURST", 5),
	}
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.AppPort == "" {
		errs = append(errs, missing("APP_PORT"))
	}
	if c.PublicEndpoint == "" {
		errs = append(errs, missing("PUBLIC_ENDPOINT"))
	}
	if c.EmailSender == "" {
		errs = append(errs, missing("EMAIL_SENDER"))
	}
	if c.CoinMarketCapKey == "" {
		errs = append(errs, missing("COINMARKETCAP_KEY"))
	}
	if c.EmailInterval <= 0 {
		errs = append(errs, missing("EMAIL_INTERVAL"))
	}
	switch c.MailTransport {
	case MailTransportStream, MailTransportSMTP:
	case MailTransportSNS:
		if c.SNSTopicARN == "" {
			errs = append(errs, missing("SNS_TOPIC_ARN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport))
	}
	return errors.Join(errs...)
}

func missing(key string) error {
	return fmt.Errorf("missing %s environment variable", key)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
