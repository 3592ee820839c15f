package crm

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"groupstay_crm/internal/domain"
)

// Initialize picks the concrete service for cfg. It never fails: anything it
// cannot build a real adapter for gets the Mock.
func Initialize(cfg domain.CRMConfig, opts ...Option) domain.CRMService {
	return initialize(log.Logger, cfg, opts...)
}

func initialize(l zerolog.Logger, cfg domain.CRMConfig, opts ...Option) domain.CRMService {
	if !cfg.Enabled {
		l.Info().Msg("crm integration disabled; using mock service")
		return NewMock(l)
	}

	switch domain.Provider(strings.ToLower(strings.TrimSpace(string(cfg.Provider)))) {
	case domain.ProviderTreadSoft:
	case domain.ProviderCustom:
		// custom providers are not differentiated yet
		l.Info().Msg("crm provider 'custom' uses the treadsoft adapter")
	default:
		l.Warn().Str("provider", string(cfg.Provider)).Msg("unknown crm provider; using mock service")
		return NewMock(l)
	}

	if cfg.APIURL == "" || cfg.APIKey == "" {
		l.Warn().
			Bool("has_url", cfg.APIURL != "").
			Bool("has_key", cfg.APIKey != "").
			Msg("crm enabled but not configured; using mock service")
		return NewMock(l)
	}

	l.Info().Str("provider", string(cfg.Provider)).Str("base", cfg.APIURL).Msg("crm adapter ready")
	return NewTreadSoft(cfg, opts...)
}

// Factory memoizes the service for the process lifetime. Build one in main
// and hand Instance() to whatever needs the CRM; there is no re-initialise
// path.
type Factory struct {
	load func() domain.CRMConfig
	opts []Option
	log  zerolog.Logger

	once sync.Once
	svc  domain.CRMService
}

func NewFactory(load func() domain.CRMConfig, l zerolog.Logger, opts ...Option) *Factory {
	return &Factory{load: load, opts: opts, log: l}
}

func (f *Factory) Instance() domain.CRMService {
	f.once.Do(func() {
		f.svc = initialize(f.log, f.load(), f.opts...)
	})
	return f.svc
}
