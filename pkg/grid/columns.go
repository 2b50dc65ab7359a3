package grid

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
	"github.com/dtnitsch/web-table-parser/pkg/textnorm"
)

// NamingRules bound what counts as a usable header label.
type NamingRules struct {
	MaxHeaderLen    int
	ControlColumns  []string
	AriaBoilerplate []string
}

// DefaultNaming is used when no configuration overrides it.
var DefaultNaming = NamingRules{
	MaxHeaderLen: 100,
	ControlColumns: []string{
		"__check__",
		"__detail_panel_toggle__",
		"actions",
		"__reorder__",
		"__tree_data_group__",
	},
	AriaBoilerplate: []string{
		"sort", "sorted", "menu", "filter", "toggle", "press", "click", "options", "action", "select",
	},
}

// Columns is the deduplicated header of one table. Indices[i] is the physical
// header cell that Names[i] came from; a dropped column leaves a gap.
type Columns struct {
	Names   []string
	Indices []int
	// Labels holds one resolved label per physical header cell, before
	// deduplication.
	Labels []string
}

// HeaderLabel returns the label emitted for physical column col in an
// extracted header row.
func (c Columns) HeaderLabel(col int) string {
	if i := slices.Index(c.Indices, col); i >= 0 {
		return c.Names[i]
	}
	if col >= 0 && col < len(c.Labels) {
		return c.Labels[col]
	}
	return ""
}

// Columns resolves and deduplicates every header cell of t.
func (t *Table) Columns(rules NamingRules) Columns {
	var cols Columns
	used := make(map[string]bool)

	t.HeaderCells.Each(func(i int, cell *goquery.Selection) {
		name, field := t.Layout.columnName(cell, i, rules)
		cols.Labels = append(cols.Labels, name)

		if used[name] {
			alt := name + "_" + field
			if field == "" || field == name || used[alt] {
				return
			}
			name = alt
		}
		used[name] = true
		cols.Names = append(cols.Names, name)
		cols.Indices = append(cols.Indices, i)
	})

	return cols
}

// columnName resolves one header cell. The field identifier is returned
// separately so collisions can be suffixed with it; it only becomes the name
// when no visible label exists.
func (l *Layout) columnName(cell *goquery.Selection, index int, rules NamingRules) (name, field string) {
	field = l.fieldID(cell, rules)

	candidates := []func() string{
		func() string { return l.titleText(cell) },
		func() string { return ariaLabel(cell, rules) },
		func() string { return dom.DirectText(cell) },
		func() string { return leafChildText(cell) },
		func() string { return field },
	}
	for _, c := range candidates {
		if v := textnorm.Normalize(c()); plausible(v, rules) {
			return v, field
		}
	}
	return fmt.Sprintf("Column %d", index+1), field
}

func plausible(v string, rules NamingRules) bool {
	if v == "" {
		return false
	}
	return rules.MaxHeaderLen <= 0 || utf8.RuneCountInString(v) <= rules.MaxHeaderLen
}

func (l *Layout) fieldID(cell *goquery.Selection, rules NamingRules) string {
	for _, attr := range l.FieldAttrs {
		v := textnorm.Normalize(dom.Attr(cell, attr))
		if v == "" {
			continue
		}
		if slices.Contains(rules.ControlColumns, v) {
			return ""
		}
		return v
	}
	return ""
}

func (l *Layout) titleText(cell *goquery.Selection) string {
	if l.TitleIsCell {
		return cell.Text()
	}
	for _, sel := range l.TitleSelectors {
		if title := cell.Find(sel).First(); title.Length() > 0 {
			return title.Text()
		}
	}
	return ""
}

func ariaLabel(cell *goquery.Selection, rules NamingRules) string {
	label := textnorm.Normalize(dom.Attr(cell, "aria-label"))
	for _, tok := range strings.Fields(strings.ToLower(label)) {
		if slices.Contains(rules.AriaBoilerplate, strings.Trim(tok, ".,:;")) {
			return ""
		}
	}
	return label
}

// leafChildText descends through single-child wrappers and returns the text
// of the leaf it reaches, if any.
func leafChildText(cell *goquery.Selection) string {
	cur := cell
	for {
		kids := cur.Children()
		if kids.Length() != 1 {
			return ""
		}
		cur = kids
		if !dom.IsContainer(cur) {
			return cur.Text()
		}
	}
}
