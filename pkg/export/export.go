// Package export writes a row matrix in one of the supported file formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output file format.
type Format string

const (
	CSV      Format = "csv"
	TSV      Format = "tsv"
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "md"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{CSV, TSV, JSON, YAML, Markdown}
}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "md", "markdown":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown export format %q, want one of %v", s, Formats())
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Write encodes rows to w. header says whether rows[0] is a header row;
// Markdown needs one and synthesizes "Column N" labels otherwise.
func Write(w io.Writer, f Format, rows [][]string, header bool) error {
	switch f {
	case CSV:
		return writeDelimited(w, rows, ',')
	case TSV:
		return writeDelimited(w, rows, '\t')
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = [][]string{}
		}
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case Markdown:
		return writeMarkdown(w, rows, header)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func writeDelimited(w io.Writer, rows [][]string, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %c-separated rows: %w", comma, err)
	}
	return nil
}

func writeMarkdown(w io.Writer, rows [][]string, header bool) error {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return nil
	}

	var head []string
	body := rows
	if header && len(rows) > 0 {
		head, body = rows[0], rows[1:]
	} else {
		for i := range width {
			head = append(head, fmt.Sprintf("Column %d", i+1))
		}
	}

	var b strings.Builder
	writeMarkdownRow(&b, head, width)
	b.WriteString("|")
	for range width {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range body {
		writeMarkdownRow(&b, r, width)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func writeMarkdownRow(b *strings.Builder, row []string, width int) {
	b.WriteString("|")
	for i := range width {
		cell := ""
		if i < len(row) {
			cell = markdownEscaper.Replace(row[i])
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
