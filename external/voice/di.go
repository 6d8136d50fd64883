package voice

import (
	"github.com/o-mars/daily-journai/internal/config"
	voicepkg "github.com/o-mars/daily-journai/internal/voice"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (voicepkg.Gateway, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewWebSocketGateway(c.VoiceGatewayURL, c.VoiceGatewayAPIKey), nil
	})
	do.Provide(injector, func(i do.Injector) (voicepkg.Listener, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewControlListener(c.ControlURL(), c.VoiceGatewayAPIKey), nil
	})
}
