package authz

import (
	"time"

	"github.com/hodei-artifacts/hodei/internal/pkg/xcache"
	"github.com/hodei-artifacts/hodei/internal/policy"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultCacheTTL       = 5 * time.Minute
)

type Config struct {
	// RequestTimeout bounds one Authorize call when the caller supplies no
	// deadline of its own.
	RequestTimeout time.Duration `conf:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	// Strict makes a malformed policy document fail the whole request
	// closed (indeterminate) instead of being skipped with a diagnostic.
	Strict bool `conf:"strict" yaml:"strict" json:"strict"`

	// Cache configures the optional decision cache. Invalidation on policy
	// or account writes is the external store's contract; entries here are
	// only TTL-bounded.
	Cache    xcache.Config `conf:"cache" yaml:"cache" json:"cache"`
	CacheTTL time.Duration `conf:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`

	Engine policy.EngineConfig `conf:"engine" yaml:"engine" json:"engine"`
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}

	return c.RequestTimeout
}

func (c Config) cacheTTL() time.Duration {
	if c.CacheTTL <= 0 {
		return defaultCacheTTL
	}

	return c.CacheTTL
}
