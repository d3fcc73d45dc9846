/*
Package match decides if a widget satisfies a parsed selector.

Approximation for combinators

Widget descriptors carry no links to parents or siblings. Therefore a
selector chained by combinators ("Dialog > QPushButton") is matched by its
last part only ("QPushButton"); ancestor and sibling parts are ignored
altogether. Package mapdbg flags selectors for which this approximation
applies.

Caching

Results are cached under the key "selector-text :: widget-signature" in a
size-bounded FIFO cache (see package fifo). As a widget's signature includes
its dynamic state, cached results never go stale; the cache needs no
invalidation when rules change.

Failure

A widget implementation may panic when queried. Matching recovers, traces
the error, and treats the selector as not matching. Styling will never crash
because of a single misbehaving widget.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package match

import (
	"sync/atomic"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stylemap/errors"
	"github.com/npillmayer/stylemap/fifo"
	"github.com/npillmayer/stylemap/selector"
	"github.com/npillmayer/stylemap/widget"
)

// tracer traces with key 'stylemap.match'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap.match")
}

// DefaultCacheSize is the default number of cached match results.
const DefaultCacheSize = 1000

// Matcher matches selectors against widgets, caching results.
// A Matcher is safe for concurrent use.
type Matcher struct {
	cache    *fifo.Cache[string, bool]
	hits     atomic.Uint64
	misses   atomic.Uint64
	failures atomic.Uint64
}

// Option is a type to help initializing matchers at creation time.
type Option func(config) config

type config struct {
	cacheSize int
}

// CacheSize is an option to set the maximum number of cached results.
func CacheSize(n int) Option {
	return func(c config) config {
		if n > 0 {
			c.cacheSize = n
		}
		return c
	}
}

// New creates a matcher.
func New(opts ...Option) *Matcher {
	c := config{cacheSize: DefaultCacheSize}
	for _, option := range opts {
		c = option(c)
	}
	return &Matcher{cache: fifo.New[string, bool](c.cacheSize)}
}

// Stats holds counters of a matcher.
type Stats struct {
	Hits, Misses, Failures uint64
	Cached                 int
}

// Stats returns a snapshot of the matcher's counters.
func (m *Matcher) Stats() Stats {
	return Stats{
		Hits:     m.hits.Load(),
		Misses:   m.misses.Load(),
		Failures: m.failures.Load(),
		Cached:   m.cache.Len(),
	}
}

// Reset drops all cached results.
func (m *Matcher) Reset() {
	m.cache.Clear()
}

// Matches returns true if widget w satisfies selector sel.
// Nil selectors or widgets never match.
func (m *Matcher) Matches(sel *selector.Selector, w widget.Widget) bool {
	if sel == nil || w == nil {
		return false
	}
	sig, ok := m.signature(sel, w)
	if !ok {
		return false
	}
	return m.MatchesSignature(sel, w, sig)
}

// MatchesSignature is like Matches, but lets the caller supply the widget's
// signature (see widget.Signature), avoiding re-computation when matching a
// widget against many rules.
func (m *Matcher) MatchesSignature(sel *selector.Selector, w widget.Widget, sig string) bool {
	if sel == nil || w == nil {
		return false
	}
	key := sel.Raw() + " :: " + sig
	if r, found := m.cache.Get(key); found {
		m.hits.Add(1)
		return r
	}
	m.misses.Add(1)
	r, err := m.match(sel, w)
	if err != nil {
		m.failures.Add(1)
		tracer().Errorf("%v", err)
		return false // do not cache failures
	}
	m.cache.Put(key, r)
	return r
}

func (m *Matcher) signature(sel *selector.Selector, w widget.Widget) (sig string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.failures.Add(1)
			tracer().Errorf("%v", errors.Matching(sel.Raw(), r))
			ok = false
		}
	}()
	return widget.Signature(w), true
}

// match evaluates the last part of sel. Ancestor and sibling parts are ignored,
// see package documentation.
func (m *Matcher) match(sel *selector.Selector, w widget.Widget) (r bool, err error) {
	defer func() {
		if x := recover(); x != nil {
			r, err = false, errors.Matching(sel.Raw(), x)
		}
	}()
	if sel.Len() == 0 {
		return false, nil
	}
	if sel.IsCompound() {
		tracer().Debugf("selector %q: matching last part only", sel.Raw())
	}
	return MatchPart(sel.Last(), w), nil
}

// MatchPart checks a single selector part against a widget. The primary value
// of the part has to match, and all of its attribute and pseudo-class
// constraints have to hold. Tokens overruled by the primary kind (see
// selector.Part.IgnoredTokens) are not checked. MatchPart does not recover
// from panics raised by w.
func MatchPart(p selector.Part, w widget.Widget) bool {
	pseudo := p.PseudoClasses()
	switch p.Kind() {
	case selector.ID:
		if p.Value() != w.Identity() {
			return false
		}
	case selector.Class:
		if !widget.HasClass(w, p.Value()) {
			return false
		}
	case selector.Type:
		if p.Value() != "*" && p.Value() != w.TypeName() {
			return false
		}
	case selector.Attribute:
		if p.AttributeCount() == 0 {
			return false
		}
	case selector.Pseudo:
		if len(pseudo) == 0 {
			return false
		}
	}
	if p.AttributeCount() > 0 && !matchAttributes(p, w) {
		return false
	}
	for _, name := range pseudo {
		if !PseudoClassHolds(name, w) {
			return false
		}
	}
	return true
}

func matchAttributes(p selector.Part, w widget.Widget) bool {
	attrs := w.Attributes()
	ok := true
	p.EachAttribute(func(name, value string) bool {
		v, found := attrs[name]
		ok = found && v == value
		return ok
	})
	return ok
}

// PseudoClasses is the vocabulary of pseudo-classes known to the matcher.
var PseudoClasses = []string{"enabled", "disabled", "visible", "hidden", "focused", "focus"}

// IsKnownPseudoClass checks if name is part of the matcher's vocabulary.
func IsKnownPseudoClass(name string) bool {
	for _, ps := range PseudoClasses {
		if ps == name {
			return true
		}
	}
	return false
}

// PseudoClassHolds evaluates a pseudo-class against the dynamic state of a
// widget. Unknown pseudo-classes never hold.
func PseudoClassHolds(name string, w widget.Widget) bool {
	switch name {
	case "enabled":
		return w.IsEnabled()
	case "disabled":
		return !w.IsEnabled()
	case "visible":
		return w.IsVisible()
	case "hidden":
		return !w.IsVisible()
	case "focused", "focus":
		return w.HasFocus()
	}
	tracer().Debugf("unknown pseudo-class %q", name)
	return false
}
