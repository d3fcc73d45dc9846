/*
Package mapdbg implements helpers to debug style mappings.

Explain tells which rules of a mapping apply to a widget, in which order they
are merged, which rule provides each of the final property values, and which
of the engine's simplifications were in effect. Explaining is read-only: it
neither fills the property map cache of the mapping nor triggers its event
hooks.

For widgets backed by HTML nodes (see widget.HTMLNode), Explain additionally
cross-checks every rule with a full CSS selector engine (cascadia) and warns
about rules for which the engine's last-part-only matching makes a difference.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package mapdbg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stylemap"
	"github.com/npillmayer/stylemap/match"
	"github.com/npillmayer/stylemap/resolve"
	"github.com/npillmayer/stylemap/selector"
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/widget"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// tracer traces with key 'stylemap.dbg'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap.dbg")
}

// AppliedRule describes a rule applying to a widget.
type AppliedRule struct {
	Index       int
	Name        string
	Selector    string
	Specificity selector.Specificity
	Priority    int
	Conditional bool
	Properties  style.PropertyMap
}

func (ar AppliedRule) String() string {
	s := fmt.Sprintf("#%d %s %s prio=%d", ar.Index, ar.Selector, ar.Specificity, ar.Priority)
	if ar.Name != "" {
		s += " (" + ar.Name + ")"
	}
	if ar.Conditional {
		s += " [conditional]"
	}
	return s
}

// Report is the result of explaining the mapping for a widget.
type Report struct {
	Widget     string           // widget signature
	Strategy   resolve.Strategy // strategy in effect
	Rules      []AppliedRule    // applicable rules, in insertion order
	Order      []int            // rule indices in the order of application
	Final      style.PropertyMap
	Provenance map[string]int // property key => index of the rule providing it
	Warnings   []string       // concerning the rules applying to the widget
	Mapping    []string       // concerning rules of the mapping regardless of the widget
}

type htmlBacked interface {
	HTMLNode() *html.Node
}

// Explain explains the mapping of m for widget w.
func Explain(m *stylemap.Mapping, w widget.Widget) *Report {
	r := &Report{
		Strategy:   m.Strategy(),
		Final:      make(style.PropertyMap),
		Provenance: make(map[string]int),
	}
	r.Mapping = mappingWarnings(m)
	if w == nil {
		return r
	}
	sig, err := signature(w)
	if err != nil {
		r.Warnings = append(r.Warnings, err.Error())
		return r
	}
	r.Widget = sig
	applied := m.GetApplicableRules(w)
	rules := make([]resolve.Rule, len(applied))
	for i, a := range applied {
		rules[i] = a.Rule
		r.Rules = append(r.Rules, AppliedRule{
			Index:       a.Index,
			Name:        a.Rule.Name(),
			Selector:    a.Rule.Selector().Raw(),
			Specificity: a.Rule.Specificity(),
			Priority:    a.Rule.Priority(),
			Conditional: a.Rule.IsConditional(),
			Properties:  a.Rule.Properties(),
		})
	}
	for _, i := range resolve.Order(rules, r.Strategy) {
		r.Order = append(r.Order, applied[i].Index)
		for k, v := range r.Rules[i].Properties {
			r.Final[k] = v
			r.Provenance[k] = applied[i].Index
		}
	}
	r.Warnings = warnings(m, w, applied)
	return r
}

// signature computes the widget's signature. A panicking widget is reported
// as an error, as GetMapping treats it as matching no rule.
func signature(w widget.Widget) (sig string, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("widget cannot be queried, no rules apply: %v", x)
		}
	}()
	return widget.Signature(w), nil
}

func warnings(m *stylemap.Mapping, w widget.Widget, applied []stylemap.Applied) []string {
	var warns []string
	isApplied := make(map[int]bool, len(applied))
	for _, a := range applied {
		isApplied[a.Index] = true
		sel := a.Rule.Selector()
		if sel.IsCompound() {
			warns = append(warns, fmt.Sprintf("rule #%d: selector %q is matched by its last part %q only",
				a.Index, sel.Raw(), sel.Last().String()))
		}
		if a.Rule.IsConditional() {
			warns = append(warns, fmt.Sprintf("rule #%d is conditional, results are not cached", a.Index))
		}
		for _, p := range sel.Parts() {
			if ignored := p.IgnoredClasses(); len(ignored) > 0 {
				warns = append(warns, fmt.Sprintf("rule #%d: classes %s of %q are ignored",
					a.Index, strings.Join(ignored, ", "), sel.Raw()))
			}
			if tokens := p.IgnoredTokens(); len(tokens) > 0 {
				warns = append(warns, fmt.Sprintf("rule #%d: %s of %q overruled by its %s constraint",
					a.Index, strings.Join(tokens, ", "), sel.Raw(), p.Kind()))
			}
		}
	}
	hb, ok := w.(htmlBacked)
	if !ok || hb.HTMLNode() == nil {
		return warns
	}
	node := hb.HTMLNode()
	for _, a := range m.Rules() {
		if a.Rule.Enabled() && !a.Rule.IsConditional() {
			if warn := crossCheck(a.Index, a.Rule.Selector(), node, isApplied[a.Index]); warn != "" {
				warns = append(warns, warn)
			}
		}
	}
	return warns
}

// mappingWarnings lists rules which can never apply to any widget.
func mappingWarnings(m *stylemap.Mapping) []string {
	var warns []string
	for _, a := range m.Rules() {
		for _, p := range a.Rule.Selector().Parts() {
			for _, ps := range p.PseudoClasses() {
				if !match.IsKnownPseudoClass(ps) {
					warns = append(warns, fmt.Sprintf("rule #%d: unknown pseudo-class %q never matches",
						a.Index, ps))
				}
			}
		}
	}
	return warns
}

// crossCheck compares the engine's match result with full CSS semantics.
func crossCheck(index int, sel *selector.Selector, node *html.Node, approx bool) string {
	csel, err := cascadia.Parse(sel.Raw())
	if err != nil {
		tracer().Debugf("cascadia cannot parse %q: %v", sel.Raw(), err)
		return ""
	}
	full := csel.Match(node)
	if full == approx {
		return ""
	}
	return fmt.Sprintf("rule #%d: %q matches=%v, but full CSS semantics say %v",
		index, sel.Raw(), approx, full)
}

// String renders a report as a tree.
func (r *Report) String() string {
	header := fmt.Sprintf("\nWidget(%s) strategy=%s\n", r.Widget, r.Strategy)
	p := tp.New()
	rules := p.AddBranch(fmt.Sprintf("rules (%d)", len(r.Rules)))
	for _, ar := range r.Rules {
		branch := rules.AddBranch(ar.String())
		for _, kv := range ar.Properties.Properties() {
			branch.AddNode(kv.String())
		}
	}
	final := p.AddBranch("final")
	groups := r.Final.Groups()
	for _, g := range sortedKeys(groups) {
		branch := final.AddBranch("[" + g + "]")
		for _, kv := range groups[g].Properties() {
			branch.AddNode(fmt.Sprintf("%s  ← #%d", kv, r.Provenance[kv.Key]))
		}
	}
	if len(r.Warnings) > 0 {
		warns := p.AddBranch("warnings")
		for _, w := range r.Warnings {
			warns.AddNode(w)
		}
	}
	if len(r.Mapping) > 0 {
		warns := p.AddBranch("mapping-wide warnings")
		for _, w := range r.Mapping {
			warns.AddNode(w)
		}
	}
	return header + p.String()
}

func sortedKeys(m map[string]style.PropertyMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
