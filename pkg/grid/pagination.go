package grid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// summaryPattern matches pagination summaries such as "1-25 of 1,204",
// "1 – 10 of 42" or "1 to 100 of 500".
var summaryPattern = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)\s+of\s+([\d,]+)`)

// ParseSummary returns the total from a pagination summary string.
func ParseSummary(text string) (int, bool) {
	m := summaryPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[3], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// paginationCounter reads the total out of the first summary element matched
// by selector.
func paginationCounter(selector string) Counter {
	return Counter{Name: "pagination", Count: func(s Scope) int {
		var total int
		s.Root.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			n, ok := ParseSummary(el.Text())
			if ok {
				total = n
			}
			return !ok
		})
		return total
	}}
}
