package stylemap

import (
	"sync/atomic"
	"time"

	"github.com/npillmayer/stylemap/errors"
	"github.com/npillmayer/stylemap/selector"
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/widget"
)

// Priorities for rules. Any integer is a legal priority; these are merely
// landmarks.
const (
	PriorityLowest  = 0
	PriorityLow     = 250
	PriorityNormal  = 500
	PriorityHigh    = 750
	PriorityHighest = 1000
)

// Condition is a runtime predicate for a rule. A rule with conditions applies
// to a widget only if all of its conditions hold.
type Condition func(widget.Widget) bool

type ruleKind int8

const (
	pureRule        ruleKind = iota // selector-only, results are cacheable
	conditionalRule                 // carries conditions, re-evaluated on every call
)

// Rule is a styling rule. Rules are created by Mapping.AddRule.
// Apart from being enabled or disabled, rules are immutable.
type Rule struct {
	selector    *selector.Selector
	props       style.PropertyMap
	priority    int
	name        string
	description string
	kind        ruleKind
	conditions  []Condition
	enabled     atomic.Bool
	created     time.Time
}

// RuleOption is a type to help initializing rules.
type RuleOption func(*Rule)

// WithPriority sets the priority of a rule. Default is PriorityNormal.
func WithPriority(p int) RuleOption {
	return func(r *Rule) {
		r.priority = p
	}
}

// WithName sets a human readable name for a rule.
func WithName(name string) RuleOption {
	return func(r *Rule) {
		r.name = name
	}
}

// WithDescription sets a description for a rule.
func WithDescription(desc string) RuleOption {
	return func(r *Rule) {
		r.description = desc
	}
}

// WithConditions adds runtime conditions to a rule. Nil conditions are ignored.
// Results for widgets matched by conditional rules will never be cached.
func WithConditions(conds ...Condition) RuleOption {
	return func(r *Rule) {
		for _, c := range conds {
			if c != nil {
				r.conditions = append(r.conditions, c)
			}
		}
	}
}

func newRule(sel *selector.Selector, props style.PropertyMap, opts ...RuleOption) *Rule {
	r := &Rule{
		selector: sel,
		props:    props.Clone(),
		priority: PriorityNormal,
		created:  time.Now(),
	}
	r.enabled.Store(true)
	for _, option := range opts {
		option(r)
	}
	if len(r.conditions) > 0 {
		r.kind = conditionalRule
	}
	return r
}

// clone copies a rule, including its enabled state.
func (r *Rule) clone() *Rule {
	c := &Rule{
		selector:    r.selector,
		props:       r.props.Clone(),
		priority:    r.priority,
		name:        r.name,
		description: r.description,
		kind:        r.kind,
		conditions:  append([]Condition(nil), r.conditions...),
		created:     r.created,
	}
	c.enabled.Store(r.enabled.Load())
	return c
}

// Selector returns the parsed selector of a rule.
func (r *Rule) Selector() *selector.Selector { return r.selector }

// Properties returns a copy of the rule's properties.
func (r *Rule) Properties() style.PropertyMap { return r.props.Clone() }

// Priority returns the priority of a rule.
func (r *Rule) Priority() int { return r.priority }

// Specificity returns the specificity of the rule's selector.
func (r *Rule) Specificity() selector.Specificity { return r.selector.Specificity() }

// Name returns the rule's name, if any.
func (r *Rule) Name() string { return r.name }

// Description returns the rule's description, if any.
func (r *Rule) Description() string { return r.description }

// Enabled returns true if the rule takes part in matching.
func (r *Rule) Enabled() bool { return r.enabled.Load() }

// IsConditional returns true if the rule carries runtime conditions.
func (r *Rule) IsConditional() bool { return r.kind == conditionalRule }

// Created returns the creation time of the rule.
func (r *Rule) Created() time.Time { return r.created }

func (r *Rule) String() string {
	s := r.selector.Raw() + " " + r.props.String()
	if r.name != "" {
		s = r.name + ": " + s
	}
	return s
}

// holds evaluates the rule's conditions. A panicking condition is treated as
// not holding.
func (r *Rule) holds(w widget.Widget) (ok bool) {
	if r.kind == pureRule {
		return true
	}
	defer func() {
		if x := recover(); x != nil {
			tracer().Errorf("condition of rule %q: %v", r.selector.Raw(), errors.Matching(r.selector.Raw(), x))
			ok = false
		}
	}()
	for _, c := range r.conditions {
		if !c(w) {
			return false
		}
	}
	return true
}
