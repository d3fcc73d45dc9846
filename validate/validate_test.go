package validate_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stylemap"
	"github.com/npillmayer/stylemap/errors"
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/validate"
	"github.com/stretchr/testify/assert"
)

func TestKnownPseudoClasses(t *testing.T) {
	m := stylemap.New()
	m.RegisterValidator(validate.KnownPseudoClasses())
	_, err := m.AddRule("QPushButton:focused", style.PropertyMap{"color": "red"})
	assert.NoError(t, err)
	_, err = m.AddRule("QPushButton:hover", style.PropertyMap{"color": "red"})
	assert.True(t, errors.IsKind(err, errors.KindValidation), "expected validation error, got %v", err)
}

func TestNonEmptyValues(t *testing.T) {
	m := stylemap.New()
	m.RegisterValidator(validate.NonEmptyValues())
	_, err := m.AddRule(".a", style.PropertyMap{"color": "red", "border": " "})
	assert.Error(t, err)
	_, err = m.AddRule(".a", style.PropertyMap{"color": "red"})
	assert.NoError(t, err)
}

func TestDimensions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.style")
	defer teardown()
	//
	m := stylemap.New()
	m.RegisterValidator(validate.Dimensions("margin", "width"))
	good := []style.PropertyMap{
		{"margin": "2px"},
		{"margin-top": "1pt", "color": "whatever"},
		{"margin": "1px 2mm 0 3pt"},
		{"width": "auto"},
		{"margin-top": "inherit", "width": "initial"},
	}
	for _, props := range good {
		_, err := m.AddRule(".a", props)
		assert.NoError(t, err, "%v", props)
	}
	bad := []style.PropertyMap{
		{"margin": "2"},
		{"margin-left": "1em"},
		{"width": "50%"},
	}
	for _, props := range bad {
		_, err := m.AddRule(".a", props)
		assert.Error(t, err, "%v", props)
	}
	assert.Equal(t, len(good), m.LiveCount())
}
