package session

import (
	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/identity"
	"github.com/o-mars/daily-journai/internal/journal"
	"github.com/o-mars/daily-journai/internal/metrics"
	"github.com/o-mars/daily-journai/internal/summarizer"
	"github.com/o-mars/daily-journai/internal/voice"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Finalizer, error) {
		repo := do.MustInvoke[journal.Repository](i)
		sum := do.MustInvoke[summarizer.Summarizer](i)
		rec := do.MustInvoke[metrics.Recorder](i)
		return NewFinalizer(repo, sum, rec), nil
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		idp := do.MustInvoke[identity.Provider](i)
		gw := do.MustInvoke[voice.Gateway](i)
		fin := do.MustInvoke[*Finalizer](i)
		return NewManager(cfg, idp, gw, fin), nil
	})
}
