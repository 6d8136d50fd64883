package metrics

import (
	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/metrics"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (metrics.Recorder, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPRecorder(c.AnalyticsWebhookURL), nil
	})
}
