package stylemap

import (
	"github.com/npillmayer/stylemap/match"
	"github.com/npillmayer/stylemap/resolve"
)

// DefaultMappingCacheSize is the default number of cached property maps.
const DefaultMappingCacheSize = 500

// Config holds the configuration of a Mapping. Clients set it by options
// given to New.
type Config struct {
	Strategy         resolve.Strategy // conflict resolution strategy
	MatchCacheSize   int              // capacity of the selector match cache
	MappingCacheSize int              // capacity of the property map cache
	Matcher          *match.Matcher   // matcher to use; if nil, one is created
}

func defaultConfig() Config {
	return Config{
		Strategy:         resolve.Priority,
		MatchCacheSize:   match.DefaultCacheSize,
		MappingCacheSize: DefaultMappingCacheSize,
	}
}

// Option is a type to help initializing mappings at creation time.
type Option func(Config) Config

// WithStrategy is an option to set the conflict resolution strategy.
//
// Use it like this:
//
//     m := stylemap.New(stylemap.WithStrategy(resolve.MostSpecific))
//
func WithStrategy(s resolve.Strategy) Option {
	return func(c Config) Config {
		c.Strategy = s
		return c
	}
}

// MatchCacheSize is an option to set the capacity of the selector match cache.
// Values < 1 are ignored.
func MatchCacheSize(n int) Option {
	return func(c Config) Config {
		if n > 0 {
			c.MatchCacheSize = n
		}
		return c
	}
}

// MappingCacheSize is an option to set the capacity of the property map cache.
// Values < 1 are ignored.
func MappingCacheSize(n int) Option {
	return func(c Config) Config {
		if n > 0 {
			c.MappingCacheSize = n
		}
		return c
	}
}

// WithMatcher is an option to use a given matcher, which may be shared between
// mappings. Match results do not depend on rules, so sharing is safe.
// MatchCacheSize has no effect if a matcher is given.
func WithMatcher(m *match.Matcher) Option {
	return func(c Config) Config {
		c.Matcher = m
		return c
	}
}
