package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"customer_outreach_bot/internal/domain/outreach"

	"github.com/joho/godotenv"
)

// defaultExcludedDomains is the stock block-list of free/consumer mail
// domains; overridden by EXCLUDED_EMAIL_DOMAINS.
var defaultExcludedDomains = []string{
	"gmail.com", "hotmail.com", "yahoo.com", "facebook.com", "outlook.com",
	"googlemail.com", "icloud.com", "yahoo.fr", "web.de", "aol.com",
	"live.com", "hotmail.fr", "yahoo.co.uk", "hotmail.co.uk", "yahoo.co.in",
	"msn.com", "yahoo.com.br", "me.com", "mail.ru", "yopmail.com", "qq.com",
	"ymail.com", "rediffmail.com", "yahoo.de", "hotmail.it", "outlook.de",
	"hotmail.de", "yahoo.it", "yahoo.in", "yahoo.com.sg", "mail.com",
	"yahoo.com.mx", "yahoo.ca", "hotmail.es", "yandex.ru", "yahoo.com.au",
	"yahoo.com.hk", "yahoo.com.tw", "gamil.com", "gmai.com", "yahoo.co.id",
	"yahoo.com.ph", "yahoo.gr", "freemail.hu", "freenet.de", "email.com",
}

// defaultExcludedURLPrefixes are non-product pages that carry no signal about
// what a customer is shopping for; overridden by EXCLUDED_URL_PREFIXES.
var defaultExcludedURLPrefixes = []string{
	"https://www.slideteam.net/pricing",
	"https://www.slideteam.net/about-us",
	"https://www.slideteam.net/contacts",
	"https://www.slideteam.net/terms-of-use",
	"https://www.slideteam.net/privacy-policy",
	"https://www.slideteam.net/coupon-code",
}

// AppConfig holds all configuration for the application. It is built once at
// startup and never mutated afterwards.
type AppConfig struct {
	DatabaseURL          string
	CustomerDataURL      string
	CustomerDataIndexURL string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float64

	SMTPHost  string
	SMTPPort  int
	CCAddress string

	SenderPool           []outreach.SenderIdentity
	ExcludedEmailDomains []string
	ExcludedURLPrefixes  []string

	IngestInterval      time.Duration
	OutreachInterval    time.Duration
	SourceCheckInterval time.Duration
	SendDelay           time.Duration

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; errors are
	// ignored if the file doesn't exist.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.CustomerDataURL = os.Getenv("CUSTOMER_DATA_URL")
	if cfg.CustomerDataURL == "" {
		return nil, fmt.Errorf("CUSTOMER_DATA_URL is not set")
	}

	// Optional: when unset the export-timestamp check job is not scheduled.
	cfg.CustomerDataIndexURL = os.Getenv("CUSTOMER_DATA_INDEX_URL")

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.OpenAITemperature = 0.5
	if tempStr := os.Getenv("OPENAI_TEMPERATURE"); tempStr != "" {
		cfg.OpenAITemperature, err = strconv.ParseFloat(tempStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
		}
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}

	cfg.SMTPPort = 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		cfg.SMTPPort, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
	}

	cfg.CCAddress = os.Getenv("CC_ADDRESS")
	if cfg.CCAddress == "" {
		cfg.CCAddress = "rahul.singla@slidetech.in"
	}

	senderPoolJSON := os.Getenv("SENDER_POOL")
	if senderPoolJSON == "" {
		return nil, fmt.Errorf("SENDER_POOL is not set")
	}
	if err = json.Unmarshal([]byte(senderPoolJSON), &cfg.SenderPool); err != nil {
		return nil, fmt.Errorf("invalid SENDER_POOL: %w", err)
	}
	// The recipient distributor partitions by index modulo pool size, so an
	// empty pool must be rejected here.
	if len(cfg.SenderPool) == 0 {
		return nil, fmt.Errorf("SENDER_POOL must contain at least one sender")
	}
	for i, s := range cfg.SenderPool {
		if s.Email == "" || s.Password == "" {
			return nil, fmt.Errorf("SENDER_POOL entry %d is missing email or password", i)
		}
	}

	cfg.ExcludedEmailDomains = splitList(os.Getenv("EXCLUDED_EMAIL_DOMAINS"))
	if len(cfg.ExcludedEmailDomains) == 0 {
		cfg.ExcludedEmailDomains = defaultExcludedDomains
	}

	cfg.ExcludedURLPrefixes = splitList(os.Getenv("EXCLUDED_URL_PREFIXES"))
	if len(cfg.ExcludedURLPrefixes) == 0 {
		cfg.ExcludedURLPrefixes = defaultExcludedURLPrefixes
	}

	if cfg.IngestInterval, err = durationEnv("INGEST_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.OutreachInterval, err = durationEnv("OUTREACH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SourceCheckInterval, err = durationEnv("SOURCE_CHECK_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SendDelay, err = durationEnv("SEND_DELAY", 1*time.Second); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
