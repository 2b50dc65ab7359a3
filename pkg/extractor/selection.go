package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/session"
)

// ParseSelection parses the CLI selection syntax "0:1,2;1:0", which selects
// columns 1 and 2 of table 0 and column 0 of table 1. A table with "*"
// selects all of its listed columns, resolved against entries.
func ParseSelection(selection string, entries []session.Entry) (models.SelectionMask, error) {
	mask := models.SelectionMask{}
	if strings.TrimSpace(selection) == "" {
		return SelectAll(entries), nil
	}

	for _, part := range strings.Split(selection, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid selection part: %s", part)
		}

		table, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil || table < 0 {
			return nil, fmt.Errorf("invalid table index: %s", kv[0])
		}

		value := strings.TrimSpace(kv[1])
		if value == "*" {
			e, ok := findEntry(entries, table)
			if !ok {
				return nil, fmt.Errorf("table %d was not detected", table)
			}
			mask.Select(table, e.ColumnIndices...)
			continue
		}

		for _, c := range strings.Split(value, ",") {
			col, err := strconv.Atoi(strings.TrimSpace(c))
			if err != nil || col < 0 {
				return nil, fmt.Errorf("invalid column index %q in: %s", c, part)
			}
			mask.Select(table, col)
		}
	}

	return mask, nil
}

// SelectAll selects every listed column of every entry.
func SelectAll(entries []session.Entry) models.SelectionMask {
	mask := models.SelectionMask{}
	for _, e := range entries {
		mask.Select(e.Index, e.ColumnIndices...)
	}
	return mask
}

func findEntry(entries []session.Entry, index int) (session.Entry, bool) {
	for _, e := range entries {
		if e.Index == index {
			return e, true
		}
	}
	return session.Entry{}, false
}
