package models

// TableInfo is one detected table as reported to callers. Columns may be
// shorter than the physical header when duplicate names were dropped;
// ColumnIndices maps each listed column to its physical header cell, which
// is the index space selections use.
type TableInfo struct {
	Index         int      `json:"index" yaml:"index"`
	Type          string   `json:"type" yaml:"type"`
	Columns       []string `json:"columns" yaml:"columns"`
	ColumnIndices []int    `json:"columnIndices" yaml:"column_indices"`
	Rows          int      `json:"rows" yaml:"rows"`
	HasHeader     bool     `json:"hasHeader" yaml:"has_header"`
}

// PageInfo describes the page the tables were found on.
type PageInfo struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName string `json:"siteName,omitempty" yaml:"site_name,omitempty"`
	Byline   string `json:"byline,omitempty" yaml:"byline,omitempty"`
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`

	PublishedTime string `json:"publishedTime,omitempty" yaml:"published_time,omitempty"`

	// Language is the ISO 639-1 code guessed from the page text.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}
