// Package dom holds the small DOM predicates and traversals shared by the
// classifier, the grid layouts and the cell resolver.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// None returns an empty selection bound to the same document as sel.
func None(sel *goquery.Selection) *goquery.Selection {
	return sel.FindNodes()
}

// ClassContains reports whether any class token of the first node in sel
// contains substr. It mirrors the [class*="..."] selectors grid widgets are
// usually matched with, but scoped to the element itself.
func ClassContains(sel *goquery.Selection, substr string) bool {
	if sel.Length() == 0 {
		return false
	}
	return NodeClassContains(sel.Get(0), substr)
}

// NodeClassContains is ClassContains for a bare node.
func NodeClassContains(n *html.Node, substr string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, substr) {
			return true
		}
	}
	return false
}

// Attr returns the trimmed value of attribute name on the first node in sel.
func Attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

// DirectText concatenates the text nodes that are immediate children of the
// first node in sel, ignoring text owned by descendant elements.
func DirectText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// ElementChildren returns the element children of the first node in sel, in
// document order.
func ElementChildren(sel *goquery.Selection) *goquery.Selection {
	return sel.First().Children()
}

// Attached reports whether n is still reachable from root by walking parent
// links. A node removed from the tree keeps its own subtree but loses the
// path to the document root.
func Attached(root, n *html.Node) bool {
	if root == nil || n == nil {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Within reports whether n is a strict descendant of ancestor.
func Within(ancestor, n *html.Node) bool {
	if ancestor == nil || n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// WithinAny reports whether n equals or descends from any node in roots.
func WithinAny(roots []*html.Node, n *html.Node) bool {
	for _, r := range roots {
		if r == n || Within(r, n) {
			return true
		}
	}
	return false
}

// Outside drops nodes of sel that are inside (or equal to) any node of
// exclude.
func Outside(sel, exclude *goquery.Selection) *goquery.Selection {
	if exclude == nil || exclude.Length() == 0 {
		return sel
	}
	roots := exclude.Nodes
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return !WithinAny(roots, s.Get(0))
	})
}

// Outermost keeps only nodes of sel that have no ancestor also in sel.
func Outermost(sel *goquery.Selection) *goquery.Selection {
	nodes := sel.Nodes
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		for _, other := range nodes {
			if other != n && Within(other, n) {
				return false
			}
		}
		return true
	})
}

// IsContainer reports whether the first node in sel has element children of
// its own, i.e. it is a wrapper rather than a leaf carrying text.
func IsContainer(sel *goquery.Selection) bool {
	return sel.First().Children().Length() > 0
}
