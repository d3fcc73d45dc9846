/*
Package sheet feeds CSS stylesheets into a stylemap.Mapping.

Theme files are not the engine's business, but many themes are written in
CSS syntax. Package sheet parses them with douceur and turns every
qualified rule into mapping rules:

    QPushButton, QToolButton { color: red; padding: 2px !important }

results in four rules, one per selector for the normal declarations and one
per selector for the !important declarations, the latter with priority
stylemap.PriorityHighest. At-rules (@media, @font-face, …) are skipped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sheet

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/stylemap"
	"github.com/npillmayer/stylemap/style"
	"go.uber.org/multierr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'stylemap.sheet'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap.sheet")
}

// Load parses CSS text and adds its rules to m. Options are applied to every
// rule created. It returns the indices of the rules added.
//
// A syntax error of the stylesheet as a whole is returned without adding any
// rules. Errors for single rules (e.g., a selector the engine does not
// support) are combined and returned, while all valid rules are added anyway.
func Load(m *stylemap.Mapping, text string, opts ...stylemap.RuleOption) ([]int, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing stylesheet: %w", err)
	}
	var indices []int
	var errs error
	for _, r := range sheet.Rules {
		if r.Kind != css.QualifiedRule {
			tracer().Debugf("skipping at-rule %s", r.Name)
			continue
		}
		normal, important := declarations(r)
		for _, sel := range selectors(r) {
			if normal.Size() > 0 {
				i, err := m.AddRule(sel, normal, opts...)
				indices, errs = collect(indices, errs, i, err)
			}
			if important.Size() > 0 {
				iopts := make([]stylemap.RuleOption, 0, len(opts)+2)
				iopts = append(iopts, opts...)
				iopts = append(iopts,
					stylemap.WithPriority(stylemap.PriorityHighest),
					stylemap.WithDescription("!important declarations"))
				i, err := m.AddRule(sel, important, iopts...)
				indices, errs = collect(indices, errs, i, err)
			}
		}
	}
	tracer().Infof("loaded %d rule(s) from stylesheet", len(indices))
	return indices, errs
}

func collect(indices []int, errs error, i int, err error) ([]int, error) {
	if err != nil {
		return indices, multierr.Append(errs, err)
	}
	return append(indices, i), errs
}

func selectors(r *css.Rule) []string {
	sels := r.Selectors
	if len(sels) == 0 {
		sels = strings.Split(r.Prelude, ",")
	}
	result := make([]string, 0, len(sels))
	for _, s := range sels {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func declarations(r *css.Rule) (normal, important style.PropertyMap) {
	normal, important = make(style.PropertyMap), make(style.PropertyMap)
	for _, d := range r.Declarations {
		if d.Important {
			important[d.Property] = style.Property(d.Value)
		} else {
			normal[d.Property] = style.Property(d.Value)
		}
	}
	return
}

// ExtractStyleElements visits an HTML parse tree and searches for embedded
// <style>s. It returns the content of style-elements, in document order.
func ExtractStyleElements(doc *html.Node) []string {
	var styles []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Style {
			var b strings.Builder
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				if ch.Type == html.TextNode {
					b.WriteString(ch.Data)
				}
			}
			styles = append(styles, b.String())
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if doc != nil {
		walk(doc)
	}
	return styles
}

// LoadHTML loads all <style> elements of an HTML document into m, see Load.
func LoadHTML(m *stylemap.Mapping, doc *html.Node, opts ...stylemap.RuleOption) ([]int, error) {
	var indices []int
	var errs error
	for _, text := range ExtractStyleElements(doc) {
		ix, err := Load(m, text, opts...)
		indices = append(indices, ix...)
		errs = multierr.Append(errs, err)
	}
	return indices, errs
}
