package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/web-table-parser/models"
)

// ErrNotFound is returned when a history record does not exist.
var ErrNotFound = errors.New("record not found")

// Detection is one recorded detection pass.
type Detection struct {
	DetectionID int64
	PageID      int64
	URL         string
	Title       string
	TableCount  int
	CreatedAt   time.Time
}

// Extraction is one recorded extraction request.
type Extraction struct {
	ExtractionID     int64
	URL              string
	Selection        models.SelectionMask
	IncludeHeaders   bool
	SkipFirstDataRow bool
	Success          bool
	RowCount         int
	FaultCount       int
	Error            string
	ExportPath       string
	CreatedAt        time.Time
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// UpsertPage inserts the page or refreshes its metadata, returning page_id.
func (db *DB) UpsertPage(info models.PageInfo) (int64, error) {
	return upsertPage(db.DB, info)
}

func upsertPage(q queryer, info models.PageInfo) (int64, error) {
	domain := ""
	if u, err := url.Parse(info.URL); err == nil {
		domain = u.Host
	}

	var pageID int64
	err := q.QueryRow("SELECT page_id FROM pages WHERE url = ?", info.URL).Scan(&pageID)
	switch {
	case err == nil:
		_, err = q.Exec(`
			UPDATE pages
			SET title = COALESCE(?, title),
			    site_name = COALESCE(?, site_name),
			    language = COALESCE(?, language),
			    updated_at = CURRENT_TIMESTAMP
			WHERE page_id = ?
		`, NewNullString(info.Title), NewNullString(info.SiteName), NewNullString(info.Language), pageID)
		if err != nil {
			return 0, fmt.Errorf("failed to update page: %w", err)
		}
		return pageID, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("failed to check existing page: %w", err)
	}

	result, err := q.Exec(`
		INSERT INTO pages (url, domain, title, site_name, language)
		VALUES (?, ?, ?, ?, ?)
	`, info.URL, NewNullString(domain), NewNullString(info.Title), NewNullString(info.SiteName), NewNullString(info.Language))
	if err != nil {
		return 0, fmt.Errorf("failed to insert page: %w", err)
	}
	pageID, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get page ID: %w", err)
	}
	return pageID, nil
}

// RecordDetection stores a detection pass and its tables in one
// transaction, returning detection_id.
func (db *DB) RecordDetection(info models.PageInfo, tables []models.TableInfo) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pageID, err := upsertPage(tx, info)
	if err != nil {
		return 0, err
	}

	result, err := tx.Exec(`
		INSERT INTO detections (page_id, table_count) VALUES (?, ?)
	`, pageID, len(tables))
	if err != nil {
		return 0, fmt.Errorf("failed to insert detection: %w", err)
	}
	detectionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get detection ID: %w", err)
	}

	for _, t := range tables {
		cols, err := json.Marshal(t.Columns)
		if err != nil {
			return 0, fmt.Errorf("failed to encode columns: %w", err)
		}
		idx, err := json.Marshal(t.ColumnIndices)
		if err != nil {
			return 0, fmt.Errorf("failed to encode column indices: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO detected_tables (detection_id, table_index, dialect, columns, column_indices, row_count, has_header)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, detectionID, t.Index, t.Type, string(cols), string(idx), t.Rows, t.HasHeader)
		if err != nil {
			return 0, fmt.Errorf("failed to insert detected table %d: %w", t.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit detection: %w", err)
	}
	return detectionID, nil
}

// RecordExtraction stores the outcome of one extraction request, returning
// extraction_id.
func (db *DB) RecordExtraction(pageURL string, req models.Request, res models.Response) (int64, error) {
	pageID, err := db.UpsertPage(models.PageInfo{URL: pageURL})
	if err != nil {
		return 0, err
	}

	selection, err := json.Marshal(req.SelectedColumns)
	if err != nil {
		return 0, fmt.Errorf("failed to encode selection: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO extractions (page_id, selection, include_headers, skip_first_data_row, success, row_count, fault_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, pageID, string(selection), req.IncludeHeaders, req.SkipFirstDataRow, res.Success,
		len(res.Data), len(res.Faults), NewNullString(res.Error))
	if err != nil {
		return 0, fmt.Errorf("failed to insert extraction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get extraction ID: %w", err)
	}
	return id, nil
}

// SetExportPath records where an extraction's matrix was written.
func (db *DB) SetExportPath(extractionID int64, path string) error {
	result, err := db.Exec("UPDATE extractions SET export_path = ? WHERE extraction_id = ?", path, extractionID)
	if err != nil {
		return fmt.Errorf("failed to set export path: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("extraction %d: %w", extractionID, ErrNotFound)
	}
	return nil
}

// ListDetections returns detection passes, most recent first.
func (db *DB) ListDetections(limit int) ([]Detection, error) {
	query := `
		SELECT d.detection_id, d.page_id, p.url, COALESCE(p.title, ''), d.table_count, d.created_at
		FROM detections d
		JOIN pages p ON p.page_id = d.page_id
		ORDER BY d.detection_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	defer rows.Close()

	var out []Detection
	for rows.Next() {
		var d Detection
		if err := rows.Scan(&d.DetectionID, &d.PageID, &d.URL, &d.Title, &d.TableCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetection returns one detection pass and its tables in index order.
func (db *DB) GetDetection(detectionID int64) (*Detection, []models.TableInfo, error) {
	var d Detection
	err := db.QueryRow(`
		SELECT d.detection_id, d.page_id, p.url, COALESCE(p.title, ''), d.table_count, d.created_at
		FROM detections d
		JOIN pages p ON p.page_id = d.page_id
		WHERE d.detection_id = ?
	`, detectionID).Scan(&d.DetectionID, &d.PageID, &d.URL, &d.Title, &d.TableCount, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("detection %d: %w", detectionID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get detection: %w", err)
	}

	rows, err := db.Query(`
		SELECT table_index, dialect, columns, column_indices, row_count, has_header
		FROM detected_tables
		WHERE detection_id = ?
		ORDER BY table_index
	`, detectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get detected tables: %w", err)
	}
	defer rows.Close()

	var tables []models.TableInfo
	for rows.Next() {
		var (
			t          models.TableInfo
			cols, idxs string
		)
		if err := rows.Scan(&t.Index, &t.Type, &cols, &idxs, &t.Rows, &t.HasHeader); err != nil {
			return nil, nil, fmt.Errorf("failed to scan detected table: %w", err)
		}
		if err := json.Unmarshal([]byte(cols), &t.Columns); err != nil {
			return nil, nil, fmt.Errorf("failed to decode columns of table %d: %w", t.Index, err)
		}
		if err := json.Unmarshal([]byte(idxs), &t.ColumnIndices); err != nil {
			return nil, nil, fmt.Errorf("failed to decode column indices of table %d: %w", t.Index, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read detected tables: %w", err)
	}
	return &d, tables, nil
}

// ListExtractions returns extraction requests, most recent first. A
// non-empty pageURL restricts the list to that page.
func (db *DB) ListExtractions(pageURL string, limit int) ([]Extraction, error) {
	query := `
		SELECT e.extraction_id, p.url, e.selection, e.include_headers, e.skip_first_data_row,
		       e.success, e.row_count, e.fault_count, COALESCE(e.error, ''), COALESCE(e.export_path, ''), e.created_at
		FROM extractions e
		JOIN pages p ON p.page_id = e.page_id
	`
	var args []any
	if pageURL != "" {
		query += " WHERE p.url = ?"
		args = append(args, pageURL)
	}
	query += " ORDER BY e.extraction_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		var (
			e         Extraction
			selection string
		)
		if err := rows.Scan(&e.ExtractionID, &e.URL, &selection, &e.IncludeHeaders, &e.SkipFirstDataRow,
			&e.Success, &e.RowCount, &e.FaultCount, &e.Error, &e.ExportPath, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		if err := json.Unmarshal([]byte(selection), &e.Selection); err != nil {
			return nil, fmt.Errorf("failed to decode selection of extraction %d: %w", e.ExtractionID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
