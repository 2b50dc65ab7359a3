// Package cell turns a single table or grid cell element into display text.
package cell

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
	"github.com/dtnitsch/web-table-parser/pkg/textnorm"
	"golang.org/x/net/html"
)

// textBearing lists the descendants whose text is aggregated piecewise rather
// than read from the cell as a single blob.
const textBearing = "p, span, a, em, strong, b, i, u, small, label, code, div, li, h1, h2, h3, h4, h5, h6, time, abbr, mark"

// Resolver resolves cells for one table. BaseURL is used to absolutize link
// and image targets; Annotate appends them to the cell text.
type Resolver struct {
	BaseURL  *url.URL
	Annotate bool
}

// Resolve returns the normalized text of cell. An empty selection resolves to
// the empty string.
func (r Resolver) Resolve(cell *goquery.Selection) string {
	if cell == nil || cell.Length() == 0 {
		return ""
	}
	cell = cell.First()

	if v, ok := controlValue(cell); ok {
		return textnorm.Normalize(v)
	}

	text := contentText(cell)

	if r.Annotate {
		if href := dom.Attr(cell.Find("a[href]").First(), "href"); href != "" {
			text += " (" + r.absolute(href) + ")"
		}
		if src := dom.Attr(cell.Find("img[src]").First(), "src"); src != "" {
			text += " [Image: " + r.absolute(src) + "]"
		}
	}

	return textnorm.Normalize(text)
}

func contentText(cell *goquery.Selection) string {
	if cell.Find(textBearing).Length() > 0 {
		if t := aggregate(cell.Get(0)); !textnorm.IsBlank(t) {
			return t
		}
	}
	if t := dom.DirectText(cell); !textnorm.IsBlank(t) {
		return t
	}
	if t := dom.Attr(cell, "title"); t != "" {
		return t
	}
	return dom.Attr(cell, "aria-label")
}

// aggregate joins the text of n's children with single spaces so adjacent
// inline elements do not run together.
func aggregate(n *html.Node) string {
	var pieces []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			pieces = append(pieces, c.Data)
		case html.ElementNode:
			switch c.Data {
			case "script", "style", "template":
				continue
			}
			if t := aggregate(c); t != "" {
				pieces = append(pieces, t)
			}
		}
	}
	return strings.Join(pieces, " ")
}

func controlValue(cell *goquery.Selection) (string, bool) {
	var value string
	var found bool
	cell.Find("input, textarea, select").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "input":
			switch strings.ToLower(dom.Attr(s, "type")) {
			case "hidden", "checkbox", "radio", "button", "submit", "reset", "image", "file":
				return true
			}
			value = dom.Attr(s, "value")
		case "textarea":
			value = s.Text()
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			value = opt.AttrOr("value", "")
			if t := strings.TrimSpace(opt.Text()); t != "" {
				value = t
			}
		}
		found = strings.TrimSpace(value) != ""
		return !found
	})
	return value, found
}

func (r Resolver) absolute(ref string) string {
	if r.BaseURL == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return r.BaseURL.ResolveReference(u).String()
}
