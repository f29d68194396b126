package finviz

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the document query capability the extractors depend on.
// Selectors are CSS selectors; Find and FindAll search descendants.
type Node interface {
	// Find returns the first descendant matching selector.
	Find(selector string) (Node, bool)
	// FindAll returns every descendant matching selector, in document order.
	FindAll(selector string) []Node
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	// Text returns the combined text of the node and its descendants.
	Text() string
}

// selection adapts a goquery selection of exactly one element (or a whole
// document) to Node.
type selection struct {
	sel *goquery.Selection
}

// NewNode wraps a goquery selection. Only the first element is kept.
func NewNode(sel *goquery.Selection) Node {
	return selection{sel: sel.First()}
}

// ParseHTML parses an HTML document into a Node.
func ParseHTML(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return selection{sel: doc.Selection}, nil
}

// ParseHTMLString is ParseHTML for an in-memory document.
func ParseHTMLString(s string) (Node, error) {
	return ParseHTML(strings.NewReader(s))
}

func (s selection) Find(selector string) (Node, bool) {
	found := s.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{sel: found}, true
}

func (s selection) FindAll(selector string) []Node {
	found := s.sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, el *goquery.Selection) {
		nodes = append(nodes, selection{sel: el})
	})
	return nodes
}

func (s selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

func (s selection) Text() string {
	return s.sel.Text()
}

// texts returns the trimmed text of each node.
func texts(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = strings.TrimSpace(n.Text())
	}
	return out
}
