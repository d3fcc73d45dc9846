package selector

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stylemap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelectors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.selector")
	defer teardown()
	//
	tests := []struct {
		text  string
		kind  Kind
		value string
		spec  Specificity
	}{
		{"#foo", ID, "foo", Specificity{0, 1, 0, 0}},
		{".bar", Class, "bar", Specificity{0, 0, 1, 0}},
		{"Widget", Type, "Widget", Specificity{0, 0, 0, 1}},
		{"*", Universal, "*", Specificity{0, 0, 0, 0}},
		{"[role=dialog]", Attribute, "", Specificity{0, 0, 1, 0}},
		{":focused", Pseudo, "", Specificity{0, 0, 1, 0}},
		{"QPushButton#ok", ID, "ok", Specificity{0, 1, 0, 0}},
		{"QPushButton.primary:focused", Class, "primary", Specificity{0, 0, 2, 0}},
		{"*.primary", Class, "primary", Specificity{0, 0, 1, 0}},
		{"Label[a=1][b='2']:hidden", Attribute, "", Specificity{0, 0, 3, 0}},
	}
	for _, tt := range tests {
		sel, err := Parse(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.text, sel.Raw())
		require.Equal(t, 1, sel.Len(), tt.text)
		assert.Equal(t, tt.kind, sel.Last().Kind(), tt.text)
		assert.Equal(t, tt.value, sel.Last().Value(), tt.text)
		assert.Equal(t, tt.spec, sel.Specificity(), tt.text)
	}
}

func TestParseCombinators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.selector")
	defer teardown()
	//
	sel, err := Parse("Dialog  .toolbar>QPushButton + #ok ~ Label")
	require.NoError(t, err)
	require.Equal(t, 5, sel.Len())
	combinators := []Combinator{Descendant, Child, Adjacent, Sibling, NoCombinator}
	for i, c := range combinators {
		assert.Equal(t, c, sel.Part(i).Combinator(), "part %d", i)
	}
	assert.True(t, sel.IsCompound())
	assert.Equal(t, Type, sel.Last().Kind())
	assert.Equal(t, "Label", sel.Last().Value())
	// 1 id, 1 class, 3 types
	assert.Equal(t, Specificity{0, 1, 1, 3}, sel.Specificity())
	assert.Equal(t, "Dialog .toolbar > QPushButton + #ok ~ Label", sel.Canonical())
}

func TestParseAttributes(t *testing.T) {
	sel, err := Parse(`[role = "main window"][state=open]`)
	require.NoError(t, err)
	p := sel.Last()
	assert.Equal(t, map[string]string{"role": "main window", "state": "open"}, p.Attributes())
	assert.Equal(t, 2, p.AttributeCount())
	assert.Equal(t, Specificity{0, 0, 2, 0}, sel.Specificity())
	// modifying the copy must not change the part
	p.Attributes()["role"] = "other"
	assert.Equal(t, "main window", sel.Last().Attributes()["role"])
}

func TestParsePseudoClassesAreASet(t *testing.T) {
	sel := MustParse("Button:focused:enabled:focused")
	assert.Equal(t, []string{"enabled", "focused"}, sel.Last().PseudoClasses())
	assert.Equal(t, Specificity{0, 0, 2, 0}, sel.Specificity())
}

func TestOnlyFirstClassIsSignificant(t *testing.T) {
	sel := MustParse(".a.b.c")
	p := sel.Last()
	assert.Equal(t, "a", p.Class())
	assert.Equal(t, []string{"b", "c"}, p.IgnoredClasses())
	assert.Equal(t, Specificity{0, 0, 1, 0}, sel.Specificity())
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.selector")
	defer teardown()
	//
	bad := []string{
		"",
		"   ",
		"> Button",
		"Button >",
		"A > > B",
		"#",
		".",
		"Button:",
		"[role]",
		"[role=",
		"[role='x]",
		"[=x]",
		"#a#b",
		"a, b",
		"Button::before",
		"Button$",
		"[a~=b]",
	}
	for _, text := range bad {
		sel, err := Parse(text)
		if !assert.Error(t, err, "expected %q to fail", text) {
			t.Logf("parsed %q as %s", text, sel.Canonical())
			continue
		}
		assert.True(t, errors.IsKind(err, errors.KindSelector), "%q: wrong error kind: %v", text, err)
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("") })
}

func TestSpecificityOrdering(t *testing.T) {
	a := Specificity{0, 1, 0, 0}
	b := Specificity{0, 0, 9, 9}
	assert.True(t, b.Less(a))
	assert.False(t, a.Less(b))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, "(0,1,0,0)", a.String())
	assert.Equal(t, 1, a.IDs())
	assert.Equal(t, 9, b.Classes())
	assert.Equal(t, 9, b.Elements())
	assert.Equal(t, 0, b.Inline())
}

func TestSpecificityFollowsPrimaryKind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.selector")
	defer teardown()
	//
	typed, plain := MustParse("QPushButton#ok"), MustParse("#ok")
	assert.Equal(t, 0, typed.Specificity().Compare(plain.Specificity()),
		"type name of an ID segment must not add to specificity")
	assert.Equal(t, []string{"QPushButton"}, typed.Last().IgnoredTokens())
	assert.Empty(t, plain.Last().IgnoredTokens())
	sel := MustParse("Label#ok.primary.extra")
	assert.Equal(t, Specificity{0, 1, 0, 0}, sel.Specificity())
	assert.Equal(t, []string{"Label", ".primary"}, sel.Last().IgnoredTokens())
	assert.Equal(t, []string{"extra"}, sel.Last().IgnoredClasses())
	assert.Equal(t, Specificity{0, 0, 1, 0}, MustParse("QPushButton.primary").Specificity())
	assert.Empty(t, MustParse("QPushButton").Last().IgnoredTokens())
	assert.Empty(t, MustParse("*:focused").Last().IgnoredTokens())
}
