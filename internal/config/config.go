package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	AllowOrigins  string
	JWTSecret     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	ReqTimeoutSec int
	CodeTTLMin    int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "*"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		SMTPHost:      getenv("SMTP_HOST", ""),
		SMTPPort:      atoi("SMTP_PORT", 587),
		SMTPUser:      getenv("SMTP_USER", ""),
		SMTPPassword:  getenv("SMTP_PASSWORD", ""),
		MailFrom:      getenv("MAIL_FROM", "no-reply@localhost"),
		OpenAIKey:     getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getenv("OPENAI_LLM_MODEL", "gpt-4o-mini"),
		ReqTimeoutSec: atoi("REQUEST_TIMEOUT_SECONDS", 30),
		CodeTTLMin:    atoi("VERIFICATION_CODE_TTL_MINUTES", 15),
	}
}
