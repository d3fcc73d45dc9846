package stylemap

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/stylemap/errors"
	"github.com/npillmayer/stylemap/fifo"
	"github.com/npillmayer/stylemap/match"
	"github.com/npillmayer/stylemap/resolve"
	"github.com/npillmayer/stylemap/selector"
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/widget"
	"go.uber.org/multierr"
)

// ErrNoSuchRule is returned for rule indices which are out of range or
// denote a removed rule.
var ErrNoSuchRule = stderrors.New("no such rule")

// Validator is a hook to reject rules at the time they are added.
// See package validate for predefined validators.
type Validator func(*Rule) error

// Mapping is a store of styling rules. Create mappings with New.
type Mapping struct {
	config   Config
	mu       sync.RWMutex // guards rules and strategy
	rules    []*Rule      // nil denotes a tombstone
	strategy resolve.Strategy
	matcher  *match.Matcher
	resolver resolve.Resolver
	cache    *fifo.Cache[string, style.PropertyMap]
	gen      atomic.Uint64 // bumped on every change of the rule set
	hits     atomic.Uint64
	misses   atomic.Uint64
	hmu      sync.RWMutex // guards validators and hooks
	hooks    []func(Event)
	valids   []Validator
}

// New creates an empty mapping.
func New(opts ...Option) *Mapping {
	c := defaultConfig()
	for _, option := range opts {
		c = option(c)
	}
	return newMapping(c)
}

func newMapping(c Config) *Mapping {
	m := &Mapping{
		config:   c,
		strategy: c.Strategy,
		matcher:  c.Matcher,
		cache:    fifo.New[string, style.PropertyMap](c.MappingCacheSize),
	}
	if m.matcher == nil {
		m.matcher = match.New(match.CacheSize(c.MatchCacheSize))
	}
	return m
}

// Applied is a rule together with its index in a mapping.
type Applied struct {
	Index int
	Rule  *Rule
}

// --- Mutation --------------------------------------------------------------

// AddRule parses a selector, creates a rule from it and appends it to the
// mapping. It returns the index of the new rule.
//
// A selector error (errors.KindSelector) is returned for empty or malformed
// selectors, a validation error (errors.KindValidation) for empty properties,
// blank property keys, or a rejection by one of the registered validators.
// In case of an error, the rule is not stored.
func (m *Mapping) AddRule(sel string, props style.PropertyMap, opts ...RuleOption) (int, error) {
	parsed, err := selector.Parse(sel)
	if err != nil {
		return -1, err
	}
	rule := newRule(parsed, props, opts...)
	if err := m.validate(rule); err != nil {
		tracer().Debugf("rule rejected: %v", err)
		return -1, err
	}
	m.mu.Lock()
	index := len(m.rules)
	m.rules = append(m.rules, rule)
	m.invalidate()
	m.mu.Unlock()
	tracer().Debugf("added rule #%d: %s", index, rule)
	m.emit(Event{Kind: RuleAdded, Index: index, Rule: rule})
	return index, nil
}

func (m *Mapping) validate(rule *Rule) error {
	raw := rule.selector.Raw()
	if len(rule.props) == 0 {
		return errors.Validation(raw, nil, "rule has no properties")
	}
	for key := range rule.props {
		if strings.TrimSpace(key) == "" {
			return errors.Validation(raw, nil, "blank property key")
		}
	}
	m.hmu.RLock()
	validators := m.valids
	m.hmu.RUnlock()
	var err error
	for _, v := range validators {
		err = multierr.Append(err, v(rule))
	}
	if err != nil {
		return errors.Validation(raw, err, "rule rejected by validator")
	}
	return nil
}

// RegisterValidator adds a custom validator. Validators are consulted by
// AddRule for every new rule; every validator sees every rule, errors
// are combined.
func (m *Mapping) RegisterValidator(v Validator) {
	if v == nil {
		return
	}
	m.hmu.Lock()
	defer m.hmu.Unlock()
	m.valids = append(m.valids, v)
}

// RemoveRule removes the rule at index, leaving a tombstone. It returns true
// if a live rule has been removed.
func (m *Mapping) RemoveRule(index int) bool {
	m.mu.Lock()
	if index < 0 || index >= len(m.rules) || m.rules[index] == nil {
		m.mu.Unlock()
		return false
	}
	rule := m.rules[index]
	m.rules[index] = nil
	m.invalidate()
	m.mu.Unlock()
	tracer().Debugf("removed rule #%d", index)
	m.emit(Event{Kind: RuleRemoved, Index: index, Rule: rule})
	return true
}

// SetEnabled enables or disables the rule at index. Disabled rules do not
// take part in matching. It returns ErrNoSuchRule for removed rules.
func (m *Mapping) SetEnabled(index int, enabled bool) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.rules) || m.rules[index] == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: index %d", ErrNoSuchRule, index)
	}
	rule := m.rules[index]
	changed := rule.enabled.Swap(enabled) != enabled
	if changed {
		m.invalidate()
	}
	m.mu.Unlock()
	if changed {
		m.emit(Event{Kind: RuleToggled, Index: index, Rule: rule})
	}
	return nil
}

// Clear removes all rules.
func (m *Mapping) Clear() {
	m.mu.Lock()
	for i := range m.rules {
		m.rules[i] = nil
	}
	m.invalidate()
	m.mu.Unlock()
	tracer().Debugf("cleared all rules")
	m.emit(Event{Kind: RulesCleared, Index: -1})
}

// SetStrategy changes the conflict resolution strategy.
func (m *Mapping) SetStrategy(s resolve.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.strategy != s {
		m.strategy = s
		m.invalidate()
	}
}

// Strategy returns the conflict resolution strategy.
func (m *Mapping) Strategy() resolve.Strategy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strategy
}

// invalidate drops all cached property maps. Must be called with mu held
// for writing. A GetMapping working on an earlier snapshot will find the
// generation changed and refrain from caching its result.
func (m *Mapping) invalidate() {
	m.gen.Add(1)
	m.cache.Clear()
}

// --- Queries ---------------------------------------------------------------

type snapshotEntry struct {
	index int
	rule  *Rule
}

// snapshot copies the enabled live rules, in insertion order.
func (m *Mapping) snapshot() ([]snapshotEntry, resolve.Strategy, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]snapshotEntry, 0, len(m.rules))
	for i, r := range m.rules {
		if r != nil && r.Enabled() {
			entries = append(entries, snapshotEntry{i, r})
		}
	}
	return entries, m.strategy, m.gen.Load()
}

// collect filters a snapshot for rules applying to w. The result is cacheable
// if no rule with a matching selector is conditional.
func (m *Mapping) collect(entries []snapshotEntry, w widget.Widget, sig string) ([]Applied, bool) {
	var applied []Applied
	cacheable := true
	for _, e := range entries {
		if !m.matcher.MatchesSignature(e.rule.selector, w, sig) {
			continue
		}
		if e.rule.IsConditional() {
			cacheable = false
			if !e.rule.holds(w) {
				continue
			}
		}
		applied = append(applied, Applied{Index: e.index, Rule: e.rule})
	}
	return applied, cacheable
}

// GetMapping returns the resolved style properties for a widget. If no rule
// applies, an empty map is returned. The result is owned by the caller.
func (m *Mapping) GetMapping(w widget.Widget) style.PropertyMap {
	if w == nil {
		return make(style.PropertyMap)
	}
	sig, ok := signature(w)
	if !ok {
		return make(style.PropertyMap)
	}
	if pmap, found := m.cache.Get(sig); found {
		m.hits.Add(1)
		m.emitApplied(w, pmap, true)
		return pmap.Clone()
	}
	m.misses.Add(1)
	entries, strategy, gen := m.snapshot()
	applied, cacheable := m.collect(entries, w, sig)
	pmap := m.resolver.Resolve(resolvable(applied), strategy)
	if cacheable {
		m.cache.PutIf(sig, pmap, func() bool {
			return m.gen.Load() == gen
		})
	}
	m.emitApplied(w, pmap, false)
	return pmap.Clone()
}

func (m *Mapping) emitApplied(w widget.Widget, pmap style.PropertyMap, cached bool) {
	m.hmu.RLock()
	n := len(m.hooks)
	m.hmu.RUnlock()
	if n > 0 {
		m.emit(Event{Kind: MappingApplied, Index: -1, Widget: w, Properties: pmap.Clone(), Cached: cached})
	}
}

// GetApplicableRules lists the rules which GetMapping would resolve for w,
// in insertion order.
func (m *Mapping) GetApplicableRules(w widget.Widget) []Applied {
	if w == nil {
		return nil
	}
	sig, ok := signature(w)
	if !ok {
		return nil
	}
	entries, _, _ := m.snapshot()
	applied, _ := m.collect(entries, w, sig)
	return applied
}

func signature(w widget.Widget) (sig string, ok bool) {
	defer func() {
		if x := recover(); x != nil {
			tracer().Errorf("cannot compute widget signature: %v", x)
			ok = false
		}
	}()
	return widget.Signature(w), true
}

func resolvable(applied []Applied) []resolve.Rule {
	rules := make([]resolve.Rule, len(applied))
	for i, a := range applied {
		rules[i] = a.Rule
	}
	return rules
}

// Rule returns the rule at index. It returns false for removed rules.
func (m *Mapping) Rule(index int) (*Rule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.rules) || m.rules[index] == nil {
		return nil, false
	}
	return m.rules[index], true
}

// Rules returns all live rules, in insertion order.
func (m *Mapping) Rules() []Applied {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var r []Applied
	for i, rule := range m.rules {
		if rule != nil {
			r = append(r, Applied{i, rule})
		}
	}
	return r
}

// Len returns the number of rule slots, including tombstones. It is the index
// the next rule will receive.
func (m *Mapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// LiveCount returns the number of rules not removed.
func (m *Mapping) LiveCount() int {
	return len(m.Rules())
}

// ComposeWith creates a new mapping containing the live rules of m followed by
// the live rules of other, each in their original order. Rules are copied,
// including enabled state. The new mapping inherits configuration, strategy,
// validators and hooks of m. Indices are not preserved.
func (m *Mapping) ComposeWith(other *Mapping) *Mapping {
	c := m.config
	c.Strategy = m.Strategy()
	composed := newMapping(c)
	m.hmu.RLock()
	composed.valids = append([]Validator(nil), m.valids...)
	composed.hooks = append([](func(Event))(nil), m.hooks...)
	m.hmu.RUnlock()
	for _, a := range m.Rules() {
		composed.rules = append(composed.rules, a.Rule.clone())
	}
	if other != nil {
		for _, a := range other.Rules() {
			composed.rules = append(composed.rules, a.Rule.clone())
		}
	}
	tracer().Debugf("composed mapping with %d rules", len(composed.rules))
	return composed
}

// --- Statistics ------------------------------------------------------------

// Stats holds counters of a mapping.
type Stats struct {
	Slots              int    // rule slots, including tombstones
	Live               int    // live rules
	Hits, Misses       uint64 // property map cache
	Cached             int    // cached property maps
	ResolutionFailures uint64
	Matcher            match.Stats
}

// Stats returns a snapshot of the mapping's counters.
func (m *Mapping) Stats() Stats {
	return Stats{
		Slots:              m.Len(),
		Live:               m.LiveCount(),
		Hits:               m.hits.Load(),
		Misses:             m.misses.Load(),
		Cached:             m.cache.Len(),
		ResolutionFailures: m.resolver.Failures(),
		Matcher:            m.matcher.Stats(),
	}
}
