package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string        `mapstructure:"ENV"`
	Port        string        `mapstructure:"PORT"`
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed string        `mapstructure:"CORS_ALLOWED_ORIGINS"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	OpenAIAPIKey      string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAITextModel   string        `mapstructure:"OPENAI_TEXT_MODEL"`
	OpenAIVisionModel string        `mapstructure:"OPENAI_VISION_MODEL"`
	AITimeout         time.Duration `mapstructure:"AI_TIMEOUT"`

	YandexMapsAPIKey string `mapstructure:"YANDEX_MAPS_API_KEY"`

	UploadDir       string `mapstructure:"UPLOAD_DIR"`
	MaxUploadSizeMB int64  `mapstructure:"MAX_UPLOAD_MB"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("TOKEN_TTL", "30m")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_TEXT_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_VISION_MODEL", "gpt-4o")
	v.SetDefault("AI_TIMEOUT", "8s")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", 10)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MaxUploadBytes is the file-size ceiling enforced before any storage work.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}

func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowed, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
