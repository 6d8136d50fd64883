package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                   string
	DatabaseURL           string
	VoiceGatewayURL       string
	VoiceControlURL       string
	VoiceGatewayAPIKey    string
	AuthJWTSecret         string
	AuthJWTIssuer         string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	AnalyticsWebhookURL   string
	IdleTimeoutMS         int
	MaxSessionDurationMin int
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.IdleTimeoutMS <= 0 {
		return fmt.Errorf("IDLE_TIMEOUT_MS must be positive, got %d", c.IdleTimeoutMS)
	}
	if c.MaxSessionDurationMin <= 0 {
		return fmt.Errorf("MAX_SESSION_DURATION_MIN must be positive, got %d", c.MaxSessionDurationMin)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "VOICE_GATEWAY_URL", value: c.VoiceGatewayURL},
		{name: "AUTH_JWT_SECRET", value: c.AuthJWTSecret},
		{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey},
	}
}

// ControlURL is the control-stream endpoint. Deployments that serve the
// control stream and session streams on the same host can leave
// VOICE_CONTROL_URL unset.
func (c *Config) ControlURL() string {
	if c.VoiceControlURL != "" {
		return c.VoiceControlURL
	}
	return c.VoiceGatewayURL
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IdleTimeout is the quiescence window after which a session with no speech
// activity is disconnected automatically.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

func (c *Config) MaxSessionDuration() time.Duration {
	return time.Duration(c.MaxSessionDurationMin) * time.Minute
}
