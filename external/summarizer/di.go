package summarizer

import (
	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/summarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (summarizer.Summarizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewOpenAISummarizer(OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			Model:   c.OpenAIModel,
			BaseURL: c.OpenAIBaseURL,
		}), nil
	})
}
