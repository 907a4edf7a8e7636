// Package markup is a small element binder over golang.org/x/net/html.
//
// It parses a document into a tree of Elements and offers the handful of
// queries a widget needs to bind itself to its markup: class-scoped lookups
// beneath a container, closest-ancestor matching, ordinal positions within a
// collection, and class toggling. Delegated event dispatch lives in events.go.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed element tree plus its event listeners.
type Document struct {
	root      *html.Node
	elems     map[*html.Node]*Element
	listeners []*listener
	nextID    int
}

// Element wraps an html.Node. Elements are interned per document, so two
// lookups of the same node return the same pointer.
type Element struct {
	node *html.Node
	doc  *Document
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: n, elems: make(map[*html.Node]*Element)}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node. It carries no attributes or classes but
// supports every query.
func (d *Document) Root() *Element {
	return d.wrap(d.root)
}

// Find returns every element in the document carrying class, in document order.
func (d *Document) Find(class string) []*Element {
	return d.Root().Find(class)
}

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if e, ok := d.elems[n]; ok {
		return e
	}
	e := &Element{node: n, doc: d}
	d.elems[n] = e
	return e
}

// Document returns the document the element belongs to.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lower-case tag name, or "" for non-element nodes.
func (e *Element) Tag() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return e.node.Data
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets (or adds) the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	if e.node.Type != html.ElementNode {
		return false
	}
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class unless already present.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), class), " "))
}

// RemoveClass removes every occurrence of class.
func (e *Element) RemoveClass(class string) {
	if !e.HasClass(class) {
		return
	}
	cs := e.Classes()
	kept := cs[:0]
	for _, c := range cs {
		if c != class {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Text returns the element's descendant text with whitespace collapsed.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// TextExcluding is Text, skipping descendants that carry class.
func (e *Element) TextExcluding(class string) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				b.WriteString(c.Data)
				b.WriteByte(' ')
			case c.Type == html.ElementNode && hasClass(c, class):
			default:
				walk(c)
			}
		}
	}
	walk(e.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	if e.node.Parent == nil {
		return nil
	}
	return e.doc.wrap(e.node.Parent)
}

// Closest returns the nearest ancestor-or-self carrying class, or nil.
func (e *Element) Closest(class string) *Element {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && hasClass(n, class) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Children returns the direct child elements carrying class. An empty class
// matches every child element.
func (e *Element) Children(class string) []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (class == "" || hasClass(c, class)) {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Find returns the descendants carrying class in document order. The element
// itself is not considered.
func (e *Element) Find(class string) []*Element {
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, class) {
				out = append(out, e.doc.wrap(c))
			}
			walk(c)
		}
	}
	walk(e.node)
	return out
}

// First returns the first descendant carrying class, or nil.
func (e *Element) First(class string) *Element {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, class) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(e.node)
	return e.doc.wrap(found)
}

// Render writes the element's outer HTML.
func (e *Element) Render(w io.Writer) error {
	return html.Render(w, e.node)
}

// String returns the element's outer HTML.
func (e *Element) String() string {
	var buf bytes.Buffer
	if err := e.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Index returns the position of e in list, or -1.
func Index(list []*Element, e *Element) int {
	for i, el := range list {
		if el == e {
			return i
		}
	}
	return -1
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
