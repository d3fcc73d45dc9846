/*
Package widget defines what the mapping engine needs to know about a widget.

The engine does not own widgets. Host toolkits describe their widgets by
implementing interface Widget; package widget provides a plain value type
(Descriptor) and an adapter for HTML element nodes (HTMLNode).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package widget

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Widget is the minimal capability set the mapping engine requires from
// a widget. Any host object satisfying this shape is matchable.
//
// Implementations should be cheap to query; the engine will call these
// methods at least once per rule evaluation on cache misses.
type Widget interface {
	Identity() string              // stable identity, e.g. an object name
	TypeName() string              // type name, e.g. "QPushButton"
	Classes() []string             // set of class tags
	Attributes() map[string]string // arbitrary attributes
	IsEnabled() bool               // dynamic state
	IsVisible() bool               // dynamic state
	HasFocus() bool                // dynamic state
}

// HasClass is a helper to check for class membership of a widget.
func HasClass(w Widget, class string) bool {
	for _, c := range w.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Signature derives a cache key from a widget. It summarizes identity, type,
// class set, attributes and dynamic state. Widgets with equal signatures are
// indistinguishable for selector matching. Identity, type name and classes
// are quoted, so separator characters within them cannot make two different
// widgets share a signature.
func Signature(w Widget) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(w.Identity()))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(w.TypeName()))
	b.WriteByte('|')
	classes := append([]string(nil), w.Classes()...)
	sort.Strings(classes)
	for i, c := range classes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(c))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(AttributeHash(w.Attributes()), 16))
	b.WriteByte('|')
	b.WriteString(stateBits(w))
	return b.String()
}

// AttributeHash hashes an attribute map independent of iteration order.
func AttributeHash(attrs map[string]string) uint64 {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(attrs[k]))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func stateBits(w Widget) string {
	bits := []byte("---")
	if w.IsEnabled() {
		bits[0] = 'e'
	}
	if w.IsVisible() {
		bits[1] = 'v'
	}
	if w.HasFocus() {
		bits[2] = 'f'
	}
	return string(bits)
}

// --- Descriptor ------------------------------------------------------------

// Descriptor is a plain value implementation of interface Widget.
// The zero value describes an anonymous, untyped widget which is disabled,
// hidden and unfocused; use New for a widget in a sensible default state.
type Descriptor struct {
	ID      string
	Type    string
	Tags    []string
	Attrs   map[string]string
	Enabled bool
	Visible bool
	Focused bool
}

// New creates a descriptor for an enabled, visible, unfocused widget.
func New(id, typename string, classes ...string) *Descriptor {
	return &Descriptor{
		ID:      id,
		Type:    typename,
		Tags:    classes,
		Enabled: true,
		Visible: true,
	}
}

// WithAttribute sets an attribute and returns the descriptor, for chaining.
func (d *Descriptor) WithAttribute(key, value string) *Descriptor {
	if d.Attrs == nil {
		d.Attrs = make(map[string]string)
	}
	d.Attrs[key] = value
	return d
}

func (d *Descriptor) Identity() string              { return d.ID }
func (d *Descriptor) TypeName() string              { return d.Type }
func (d *Descriptor) Classes() []string             { return d.Tags }
func (d *Descriptor) Attributes() map[string]string { return d.Attrs }
func (d *Descriptor) IsEnabled() bool               { return d.Enabled }
func (d *Descriptor) IsVisible() bool               { return d.Visible }
func (d *Descriptor) HasFocus() bool                { return d.Focused }

func (d *Descriptor) String() string {
	return "widget(" + Signature(d) + ")"
}

var _ Widget = &Descriptor{}
