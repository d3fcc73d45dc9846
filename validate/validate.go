/*
Package validate provides validators for rules, to be registered with
stylemap.Mapping.RegisterValidator.

    m := stylemap.New()
    m.RegisterValidator(validate.KnownPseudoClasses())
    m.RegisterValidator(validate.Dimensions("margin", "padding", "min-width"))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package validate

import (
	"fmt"
	"strings"

	"github.com/npillmayer/stylemap"
	"github.com/npillmayer/stylemap/match"
	"github.com/npillmayer/stylemap/style"
	"go.uber.org/multierr"
)

// KnownPseudoClasses rejects rules with selectors using pseudo-classes the
// matcher does not know about. Such rules would never match.
func KnownPseudoClasses() stylemap.Validator {
	return func(r *stylemap.Rule) error {
		var err error
		for _, p := range r.Selector().Parts() {
			for _, ps := range p.PseudoClasses() {
				if !match.IsKnownPseudoClass(ps) {
					err = multierr.Append(err, fmt.Errorf("unknown pseudo-class %q", ps))
				}
			}
		}
		return err
	}
}

// NonEmptyValues rejects rules with empty (or blank) property values.
func NonEmptyValues() stylemap.Validator {
	return func(r *stylemap.Rule) error {
		var err error
		for _, kv := range r.Properties().Properties() {
			if kv.Value.IsEmpty() {
				err = multierr.Append(err, fmt.Errorf("empty value for property %q", kv.Key))
			}
		}
		return err
	}
}

// Dimensions rejects rules where a property value is not an absolute CSS
// length, for every property whose key equals one of keys or starts with
// one of them followed by '-' (e.g., "margin" covers "margin-top").
// Property values "auto", "inherit" and "initial" are accepted.
// Compound values ("1px 2px") are checked field by field.
func Dimensions(keys ...string) stylemap.Validator {
	return func(r *stylemap.Rule) error {
		var err error
		for _, kv := range r.Properties().Properties() {
			if !coveredBy(kv.Key, keys) {
				continue
			}
			if kv.Value == "auto" || kv.Value.IsInherit() || kv.Value.IsInitial() {
				continue
			}
			for _, field := range strings.Fields(kv.Value.String()) {
				if !style.IsDimension(style.Property(field)) {
					err = multierr.Append(err, fmt.Errorf("property %q: %q is not a dimension", kv.Key, field))
				}
			}
		}
		return err
	}
}

func coveredBy(key string, keys []string) bool {
	for _, k := range keys {
		if key == k || strings.HasPrefix(key, k+"-") {
			return true
		}
	}
	return false
}
