/*
Package selector implements parsing of CSS-like selectors for widgets.

Selectors address widgets by identity ("#ok"), class (".primary"), type name
("QPushButton"), attribute ("[role=dialog]"), and dynamic state (":focused").
Segments may be chained by combinators, however the matching engine considers
the last segment only (see package match).

Status

The grammar is a narrow subset of CSS Selectors Level 3. It knows no
namespaces, no attribute operators besides '=', no pseudo-elements, and no
selector groups. Clients needing groups have to split on ',' themselves
(package sheet does this).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'stylemap.selector'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap.selector")
}

// Kind is the primary kind of a selector part.
type Kind int8

// Kinds of selector parts.
const (
	Universal Kind = iota
	ID
	Class
	Type
	Attribute
	Pseudo
)

func (k Kind) String() string {
	switch k {
	case ID:
		return "ID"
	case Class:
		return "CLASS"
	case Type:
		return "TYPE"
	case Attribute:
		return "ATTRIBUTE"
	case Pseudo:
		return "PSEUDO"
	}
	return "UNIVERSAL"
}

// Combinator links a part to the next part of a selector.
type Combinator int8

// Combinators. The combinator is stored with the part preceding it.
const (
	NoCombinator Combinator = iota
	Descendant              // "A B"
	Child                   // "A > B"
	Adjacent                // "A + B"
	Sibling                 // "A ~ B"
)

func (c Combinator) String() string {
	switch c {
	case Descendant:
		return " "
	case Child:
		return ">"
	case Adjacent:
		return "+"
	case Sibling:
		return "~"
	}
	return ""
}

// Part is one compound segment of a selector, e.g. "QPushButton#ok:focused".
// Parts are immutable once parsed.
//
// The primary kind is the kind of the most significant token of the segment,
// in the order ID, class, attribute, pseudo-class, type. Matching and
// specificity consider the primary value plus all attribute and pseudo-class
// constraints. A type name or class token which is not the primary value
// is kept for diagnostics only, see IgnoredTokens.
type Part struct {
	kind       Kind
	value      string // primary value: id, class or type name
	typeName   string // type name if the segment starts with one ("" or "*" otherwise)
	id         string
	class      string   // first class token only
	ignored    []string // further class tokens, see IgnoredClasses
	attrs      map[string]string
	pseudo     []string // sorted set
	combinator Combinator
}

// Kind returns the primary kind of a part.
func (p Part) Kind() Kind { return p.kind }

// Value returns the primary value of a part.
func (p Part) Value() string { return p.value }

// TypeName returns the type name constraint of the part, or "" if none.
// The universal type "*" is reported as "*".
func (p Part) TypeName() string { return p.typeName }

// ID returns the identity constraint of the part, or "".
func (p Part) ID() string { return p.id }

// Class returns the class constraint of the part, or "".
func (p Part) Class() string { return p.class }

// IgnoredClasses returns class tokens after the first one. Only the first
// class token of a segment is significant for matching and specificity;
// the rest is kept for diagnostics.
func (p Part) IgnoredClasses() []string {
	return append([]string(nil), p.ignored...)
}

// IgnoredTokens returns the type name and class tokens of a segment which are
// overruled by its primary kind, e.g. "QPushButton" in "QPushButton#ok".
// Extra class tokens are reported by IgnoredClasses.
func (p Part) IgnoredTokens() []string {
	var tokens []string
	if p.kind != Type && p.typeName != "" && p.typeName != "*" {
		tokens = append(tokens, p.typeName)
	}
	if p.kind == ID && p.class != "" {
		tokens = append(tokens, "."+p.class)
	}
	return tokens
}

// Attributes returns a copy of the attribute constraints.
func (p Part) Attributes() map[string]string {
	m := make(map[string]string, len(p.attrs))
	for k, v := range p.attrs {
		m[k] = v
	}
	return m
}

// AttributeCount returns the number of attribute constraints.
func (p Part) AttributeCount() int { return len(p.attrs) }

// EachAttribute calls f for every attribute constraint, in key order,
// until f returns false.
func (p Part) EachAttribute(f func(name, value string) bool) {
	keys := make([]string, 0, len(p.attrs))
	for k := range p.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !f(k, p.attrs[k]) {
			return
		}
	}
}

// PseudoClasses returns the pseudo-class names of the part, sorted.
func (p Part) PseudoClasses() []string {
	return append([]string(nil), p.pseudo...)
}

// Combinator returns the combinator linking this part to the next one.
func (p Part) Combinator() Combinator { return p.combinator }

// String re-creates a canonical textual form of the part (without combinator).
func (p Part) String() string {
	var b strings.Builder
	if p.typeName != "" {
		b.WriteString(p.typeName)
	}
	if p.id != "" {
		b.WriteString("#" + p.id)
	}
	if p.class != "" {
		b.WriteString("." + p.class)
	}
	for _, c := range p.ignored {
		b.WriteString("." + c)
	}
	p.EachAttribute(func(k, v string) bool {
		fmt.Fprintf(&b, "[%s=%s]", k, v)
		return true
	})
	for _, ps := range p.pseudo {
		b.WriteString(":" + ps)
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// specificity of a single part: one count for the primary kind, plus one
// class count per attribute and pseudo-class.
func (p Part) specificity() Specificity {
	var s Specificity
	switch p.kind {
	case ID:
		s[1]++
	case Class:
		s[2]++
	case Type:
		s[3]++
	}
	s[2] += len(p.attrs) + len(p.pseudo)
	return s
}

// --- Specificity -----------------------------------------------------------

// Specificity is a 4-tuple (inline, ids, classes/attributes/pseudo-classes,
// elements). Specificities are ordered lexicographically, most significant
// field first. The inline field is always 0 for parsed selectors.
type Specificity [4]int

// Inline is the count of inline styles (always 0).
func (s Specificity) Inline() int { return s[0] }

// IDs is the count of identity constraints.
func (s Specificity) IDs() int { return s[1] }

// Classes is the count of class, attribute and pseudo-class constraints.
func (s Specificity) Classes() int { return s[2] }

// Elements is the count of type constraints.
func (s Specificity) Elements() int { return s[3] }

// Compare returns -1, 0 or +1 if s is less, equal or greater than other.
func (s Specificity) Compare(other Specificity) int {
	for i := range s {
		if s[i] < other[i] {
			return -1
		}
		if s[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Less returns true if s < other (strictly).
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

func (s Specificity) add(other Specificity) Specificity {
	for i, n := range other {
		s[i] += n
	}
	return s
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s[0], s[1], s[2], s[3])
}

// --- Selector --------------------------------------------------------------

// Selector is a parsed selector: an ordered sequence of parts together with
// its specificity and the original text.
type Selector struct {
	raw   string
	parts []Part
	spec  Specificity
}

// Raw returns the selector text as given to Parse.
func (sel *Selector) Raw() string { return sel.raw }

// Specificity returns the specificity of the selector, summed over all parts.
func (sel *Selector) Specificity() Specificity { return sel.spec }

// Len returns the number of parts.
func (sel *Selector) Len() int { return len(sel.parts) }

// Part returns the i-th part.
func (sel *Selector) Part(i int) Part { return sel.parts[i] }

// Parts returns a copy of the parts of a selector.
func (sel *Selector) Parts() []Part {
	return append([]Part(nil), sel.parts...)
}

// Last returns the rightmost part, i.e. the part addressing the target widget.
func (sel *Selector) Last() Part {
	return sel.parts[len(sel.parts)-1]
}

// IsCompound is true if the selector consists of more than one part
// chained by combinators.
func (sel *Selector) IsCompound() bool {
	return len(sel.parts) > 1
}

func (sel *Selector) String() string {
	return sel.raw
}

// Canonical re-creates a normalized textual form of the selector.
func (sel *Selector) Canonical() string {
	var b strings.Builder
	for i, p := range sel.parts {
		b.WriteString(p.String())
		if i < len(sel.parts)-1 {
			switch c := p.combinator; c {
			case Descendant:
				b.WriteString(" ")
			default:
				b.WriteString(" " + c.String() + " ")
			}
		}
	}
	return b.String()
}
