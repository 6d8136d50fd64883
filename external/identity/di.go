package identity

import (
	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/identity"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (identity.Provider, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewJWTProvider(c.AuthJWTSecret, c.AuthJWTIssuer), nil
	})
}
