package widget

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLNode adapts an HTML element node to interface Widget:
//
//     identity   = attribute "id"
//     type name  = element name, e.g. "button"
//     classes    = fields of attribute "class"
//     enabled    = no "disabled" attribute present
//     visible    = no "hidden" attribute present
//     focused    = "autofocus" attribute present
//
// The adapter is a read-only view; changing the underlying node changes the
// widget.
type HTMLNode struct {
	node *html.Node
}

// FromHTML wraps an element node. It returns nil for nil nodes or nodes which
// are not of type html.ElementNode.
func FromHTML(n *html.Node) *HTMLNode {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &HTMLNode{node: n}
}

// HTMLNode returns the underlying HTML node.
func (h *HTMLNode) HTMLNode() *html.Node {
	return h.node
}

func (h *HTMLNode) attr(key string) (string, bool) {
	for _, a := range h.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (h *HTMLNode) Identity() string {
	id, _ := h.attr("id")
	return id
}

func (h *HTMLNode) TypeName() string {
	return h.node.Data
}

func (h *HTMLNode) Classes() []string {
	c, _ := h.attr("class")
	return strings.Fields(c)
}

func (h *HTMLNode) Attributes() map[string]string {
	m := make(map[string]string, len(h.node.Attr))
	for _, a := range h.node.Attr {
		if a.Namespace == "" {
			m[a.Key] = a.Val
		}
	}
	return m
}

func (h *HTMLNode) IsEnabled() bool {
	_, disabled := h.attr("disabled")
	return !disabled
}

func (h *HTMLNode) IsVisible() bool {
	_, hidden := h.attr("hidden")
	return !hidden
}

func (h *HTMLNode) HasFocus() bool {
	_, focus := h.attr("autofocus")
	return focus
}

var _ Widget = &HTMLNode{}

// Elements collects all element nodes of an HTML tree in document order,
// wrapped as widgets.
func Elements(doc *html.Node) []*HTMLNode {
	var r []*HTMLNode
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if w := FromHTML(n); w != nil {
			r = append(r, w)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if doc != nil {
		walk(doc)
	}
	return r
}
