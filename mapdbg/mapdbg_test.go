package mapdbg

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stylemap"
	"github.com/npillmayer/stylemap/style"
	"github.com/npillmayer/stylemap/widget"
	"golang.org/x/net/html"
)

func TestExplainProvenance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.dbg")
	defer teardown()
	//
	m := stylemap.New()
	m.AddRule("QPushButton", style.PropertyMap{"color": "black", "margin-top": "2px"}, stylemap.WithName("buttons"))
	m.AddRule("#ok", style.PropertyMap{"color": "green"}, stylemap.WithPriority(stylemap.PriorityHigh))
	m.AddRule("QLabel", style.PropertyMap{"color": "gray"})
	w := widget.New("ok", "QPushButton")
	r := Explain(m, w)
	t.Logf("report = %s", r)
	if len(r.Rules) != 2 {
		t.Fatalf("expected 2 applicable rules, have %d", len(r.Rules))
	}
	if !r.Final.Equal(m.GetMapping(w)) {
		t.Errorf("expected explained final map to equal mapping, is %s", r.Final)
	}
	if r.Provenance["color"] != 1 || r.Provenance["margin-top"] != 0 {
		t.Errorf("unexpected provenance %v", r.Provenance)
	}
	if len(r.Order) != 2 || r.Order[0] != 0 || r.Order[1] != 1 {
		t.Errorf("expected order of application [0 1], is %v", r.Order)
	}
	if !strings.Contains(r.String(), "[Margins]") {
		t.Error("expected rendered report to group final properties")
	}
}

func TestExplainWarnings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.dbg")
	defer teardown()
	//
	m := stylemap.New()
	m.AddRule("QDialog > QPushButton", style.PropertyMap{"color": "red"})
	m.AddRule(".a.b", style.PropertyMap{"color": "blue"})
	m.AddRule("QLabel#ok", style.PropertyMap{"color": "black"})
	m.AddRule("QPushButton:hover", style.PropertyMap{"color": "white"})
	m.AddRule(".z.y", style.PropertyMap{"color": "gray"})
	m.AddRule("QPushButton", style.PropertyMap{"border": "none"},
		stylemap.WithConditions(func(widget.Widget) bool { return true }))
	r := Explain(m, widget.New("ok", "QPushButton", "a"))
	t.Logf("report = %s", r)
	expect := []string{"last part", "classes b of", "QLabel of", "conditional"}
	for _, e := range expect {
		if !containsWarning(r.Warnings, e) {
			t.Errorf("expected a warning containing %q, have %v", e, r.Warnings)
		}
	}
	if containsWarning(r.Warnings, "classes y of") || containsWarning(r.Warnings, "pseudo-class") {
		t.Errorf("expected no warnings for rules not applying to the widget, have %v", r.Warnings)
	}
	if len(r.Mapping) != 1 || !strings.Contains(r.Mapping[0], `"hover"`) {
		t.Errorf("expected one mapping-wide warning for :hover, have %v", r.Mapping)
	}
	if !strings.Contains(r.String(), "mapping-wide warnings") {
		t.Error("expected rendered report to list mapping-wide warnings")
	}
}

func containsWarning(warns []string, s string) bool {
	for _, w := range warns {
		if strings.Contains(w, s) {
			return true
		}
	}
	return false
}

func TestExplainCrossChecksHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.dbg")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(
		`<html><body><div class="dialog"><button id="ok">OK</button></div></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	var button *widget.HTMLNode
	for _, w := range widget.Elements(doc) {
		if w.TypeName() == "button" {
			button = w
		}
	}
	if button == nil {
		t.Fatal("no button found")
	}
	m := stylemap.New()
	m.AddRule("div.dialog > button", style.PropertyMap{"color": "red"})
	m.AddRule("span button", style.PropertyMap{"color": "blue"})
	r := Explain(m, button)
	t.Logf("report = %s", r)
	var divergent []string
	for _, w := range r.Warnings {
		if strings.Contains(w, "full CSS semantics") {
			divergent = append(divergent, w)
		}
	}
	if len(divergent) != 1 || !strings.Contains(divergent[0], "span button") {
		t.Errorf("expected exactly one divergence for 'span button', have %v", divergent)
	}
}

func TestExplainNilWidget(t *testing.T) {
	r := Explain(stylemap.New(), nil)
	if r.Final.Size() != 0 || len(r.Rules) != 0 {
		t.Errorf("expected empty report, have %v", r)
	}
}

type unqueryable struct {
	*widget.Descriptor
}

func (unqueryable) Attributes() map[string]string {
	panic("attributes not available")
}

func TestExplainSurvivesPanickingWidget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stylemap.dbg")
	defer teardown()
	//
	m := stylemap.New()
	m.AddRule("QPushButton", style.PropertyMap{"color": "red"})
	w := unqueryable{widget.New("ok", "QPushButton")}
	r := Explain(m, w)
	if r.Final.Size() != 0 || len(r.Rules) != 0 {
		t.Errorf("expected empty explanation, have %v", r)
	}
	if !containsWarning(r.Warnings, "cannot be queried") {
		t.Errorf("expected a warning about the widget, have %v", r.Warnings)
	}
	if !r.Final.Equal(m.GetMapping(w)) {
		t.Error("expected explanation to agree with mapping")
	}
}
