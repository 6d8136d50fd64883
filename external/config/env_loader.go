package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/o-mars/daily-journai/internal/config"
)

type envConfig struct {
	Env                   string `env:"ENV" envDefault:"production"`
	DatabaseURL           string `env:"DATABASE_URL,required"`
	VoiceGatewayURL       string `env:"VOICE_GATEWAY_URL,required"`
	VoiceControlURL       string `env:"VOICE_CONTROL_URL"`
	VoiceGatewayAPIKey    string `env:"VOICE_GATEWAY_API_KEY"`
	AuthJWTSecret         string `env:"AUTH_JWT_SECRET,required"`
	AuthJWTIssuer         string `env:"AUTH_JWT_ISSUER"`
	OpenAIAPIKey          string `env:"OPENAI_API_KEY,required"`
	OpenAIModel           string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL"`
	AnalyticsWebhookURL   string `env:"ANALYTICS_WEBHOOK_URL"`
	IdleTimeoutMS         int    `env:"IDLE_TIMEOUT_MS" envDefault:"12500"`
	MaxSessionDurationMin int    `env:"MAX_SESSION_DURATION_MIN" envDefault:"60"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		DatabaseURL:           raw.DatabaseURL,
		VoiceGatewayURL:       raw.VoiceGatewayURL,
		VoiceControlURL:       raw.VoiceControlURL,
		VoiceGatewayAPIKey:    raw.VoiceGatewayAPIKey,
		AuthJWTSecret:         raw.AuthJWTSecret,
		AuthJWTIssuer:         raw.AuthJWTIssuer,
		OpenAIAPIKey:          raw.OpenAIAPIKey,
		OpenAIModel:           raw.OpenAIModel,
		OpenAIBaseURL:         raw.OpenAIBaseURL,
		AnalyticsWebhookURL:   raw.AnalyticsWebhookURL,
		IdleTimeoutMS:         raw.IdleTimeoutMS,
		MaxSessionDurationMin: raw.MaxSessionDurationMin,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
