/*
Package resolve merges the properties of competing rules.

Input to resolution is the list of rules which already matched a widget, in
insertion order. Resolution strategies differ in how properties of
competing rules overwrite each other:

    Priority      sort by (priority, specificity), highest wins per key
    Merge         insertion order, last rule wins per key
    FirstMatch    properties of the first rule only
    LastMatch     properties of the last rule only
    MostSpecific  sort by specificity, most specific wins per key

For the sorting strategies, keys not set by the winning rule are inherited
from rules beneath it. Sorting is stable: of two tying rules, the one
inserted first wins.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package resolve

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stylemap/errors"
	"github.com/npillmayer/stylemap/selector"
	"github.com/npillmayer/stylemap/style"
)

// tracer traces with key 'stylemap.resolve'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap.resolve")
}

// Strategy is a conflict resolution strategy.
type Strategy int8

// Resolution strategies. Unknown values are treated as Priority.
const (
	Priority Strategy = iota
	Merge
	FirstMatch
	LastMatch
	MostSpecific
)

var strategyNames = map[Strategy]string{
	Priority:     "priority",
	Merge:        "merge",
	FirstMatch:   "first_match",
	LastMatch:    "last_match",
	MostSpecific: "most_specific",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return strategyNames[Priority]
}

// ParseStrategy finds a strategy by name, e.g. "most-specific" or "MOST_SPECIFIC".
func ParseStrategy(name string) (Strategy, bool) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for s, sn := range strategyNames {
		if sn == n {
			return s, true
		}
	}
	return Priority, false
}

// Rule is what the resolver needs to know about a rule.
type Rule interface {
	Properties() style.PropertyMap
	Priority() int
	Specificity() selector.Specificity
}

// Order returns indices into rules, in the order in which the rules' properties
// are applied (later ones overwrite earlier ones) for a given strategy.
func Order(rules []Rule, strategy Strategy) []int {
	n := len(rules)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n <= 1 {
		return order
	}
	switch strategy {
	case Merge:
		return order
	case FirstMatch:
		return order[:1]
	case LastMatch:
		return order[n-1:]
	case MostSpecific:
		sort.SliceStable(order, func(i, j int) bool { // descending
			return rules[order[j]].Specificity().Less(rules[order[i]].Specificity())
		})
	default: // Priority
		sort.SliceStable(order, func(i, j int) bool { // descending
			ri, rj := rules[order[i]], rules[order[j]]
			if ri.Priority() != rj.Priority() {
				return ri.Priority() > rj.Priority()
			}
			return rj.Specificity().Less(ri.Specificity())
		})
	}
	reverse(order) // apply lowest first
	return order
}

func reverse(a []int) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// Resolve merges rules by strategy, see package documentation.
// Resolving zero rules returns an empty map. The result is always a fresh map
// owned by the caller.
func Resolve(rules []Rule, strategy Strategy) style.PropertyMap {
	pmap := make(style.PropertyMap)
	for _, i := range Order(rules, strategy) {
		pmap.Overwrite(rules[i].Properties())
	}
	return pmap
}

// Resolver is a resolver which never panics. The zero value is ready to use.
// A Resolver is safe for concurrent use.
type Resolver struct {
	failures atomic.Uint64
}

// Resolve is like package function Resolve. If resolution panics, e.g. because
// of a nil rule, the failure is counted and the properties merged so far are
// returned.
func (r *Resolver) Resolve(rules []Rule, strategy Strategy) (pmap style.PropertyMap) {
	pmap = make(style.PropertyMap)
	defer func() {
		if x := recover(); x != nil {
			r.failures.Add(1)
			tracer().Errorf("%v", errors.Resolution(x))
		}
	}()
	for _, i := range Order(rules, strategy) {
		pmap.Overwrite(rules[i].Properties())
	}
	return pmap
}

// Failures returns the number of failed resolutions.
func (r *Resolver) Failures() uint64 {
	return r.failures.Load()
}
