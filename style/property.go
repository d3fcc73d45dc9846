/*
Package style holds the output type of the mapping engine: property maps.

A property map is what a widget receives after all its matching rules have
been resolved. The engine never interprets property values; it treats them
as opaque strings. Interpretation (colors, dimensions, fonts) is left to the
styling collaborator, although this package provides a few helpers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'stylemap.style'
func tracer() tracing.Trace {
	return tracing.Select("stylemap.style")
}

// Property is a raw value for a style property. For example, with
//
//     color: black
//
// a property value of "black" is set. Values are kept verbatim; unlike
// CSS engines we do not lower-case them, as widget toolkits may use
// case-sensitive values (e.g., resource paths).
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return Property(strings.TrimSpace(string(p))) == NullStyle
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

func (kv KeyValue) String() string {
	return fmt.Sprintf("%s: %s", kv.Key, kv.Value)
}

// --- Property Map -----------------------------------------------------

// PropertyMap maps property keys to values. nil is a legal (empty) property map
// for all read operations.
type PropertyMap map[string]Property

// Size returns the number of properties.
func (pmap PropertyMap) Size() int {
	return len(pmap)
}

// Get a property's value, together with an indicator wether it has been
// found in the map.
func (pmap PropertyMap) Get(key string) (Property, bool) {
	p, ok := pmap[key]
	return p, ok
}

// IsSet is a predicate wether a property is set to a non-empty value.
func (pmap PropertyMap) IsSet(key string) bool {
	p, ok := pmap[key]
	return ok && !p.IsEmpty()
}

// Keys returns the property keys in lexicographic order.
func (pmap PropertyMap) Keys() []string {
	keys := make([]string, 0, len(pmap))
	for k := range pmap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Properties returns all properties, sorted by key.
func (pmap PropertyMap) Properties() []KeyValue {
	r := make([]KeyValue, 0, len(pmap))
	for _, k := range pmap.Keys() {
		r = append(r, KeyValue{k, pmap[k]})
	}
	return r
}

// Clone returns a copy of the map. Cloning nil yields an empty, non-nil map.
func (pmap PropertyMap) Clone() PropertyMap {
	c := make(PropertyMap, len(pmap))
	for k, v := range pmap {
		c[k] = v
	}
	return c
}

// Overwrite copies all properties of other into pmap, replacing existing values.
func (pmap PropertyMap) Overwrite(other PropertyMap) {
	for k, v := range other {
		pmap[k] = v
	}
}

// Equal checks if two maps hold the same properties.
func (pmap PropertyMap) Equal(other PropertyMap) bool {
	if len(pmap) != len(other) {
		return false
	}
	for k, v := range pmap {
		if w, ok := other[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func (pmap PropertyMap) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, kv := range pmap.Properties() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(kv.String())
	}
	b.WriteString("}")
	return b.String()
}

// Groups splits up a map by property group, see GroupNameFromPropertyKey.
func (pmap PropertyMap) Groups() map[string]PropertyMap {
	groups := make(map[string]PropertyMap)
	for k, v := range pmap {
		g := GroupNameFromPropertyKey(k)
		if groups[g] == nil {
			groups[g] = make(PropertyMap)
		}
		groups[g][k] = v
	}
	return groups
}

// --- Property Groups --------------------------------------------------

// Symbolic names for string literals, denoting property groups.
// Groups are used for diagnostic output only.
const (
	PGMargins   = "Margins"
	PGPadding   = "Padding"
	PGBorder    = "Border"
	PGDimension = "Dimension"
	PGDisplay   = "Display"
	PGColor     = "Color"
	PGFont      = "Font"
	PGText      = "Text"
	PGX         = "X"
)

var groupNamePrefixes = []struct {
	prefix string
	group  string
}{
	{"margin", PGMargins},
	{"padding", PGPadding},
	{"border", PGBorder},
	{"outline", PGBorder},
	{"font", PGFont},
	{"text", PGText},
	{"selection", PGColor},
	{"background", PGColor},
	{"alternate-background", PGColor},
	{"min-", PGDimension},
	{"max-", PGDimension},
}

var groupNameFromPropertyKey = map[string]string{
	"width":          PGDimension,
	"height":         PGDimension,
	"spacing":        PGDimension,
	"display":        PGDisplay,
	"visibility":     PGDisplay,
	"position":       PGDisplay,
	"opacity":        PGDisplay,
	"image":          PGDisplay,
	"icon":           PGDisplay,
	"color":          PGColor,
	"gridline-color": PGColor,
	"line-height":    PGText,
	"white-space":    PGText,
	"word-spacing":   PGText,
	"letter-spacing": PGText,
	"direction":      PGText,
}

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//    GroupNameFromPropertyKey("margin-top") => "Margins"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	if g, found := groupNameFromPropertyKey[key]; found {
		return g
	}
	for _, p := range groupNamePrefixes {
		if strings.HasPrefix(key, p.prefix) {
			return p.group
		}
	}
	return PGX
}
