package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/models"
	dbpkg "github.com/dtnitsch/web-table-parser/pkg/db"
	"github.com/urfave/cli/v2"
)

func openDB(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// ListAction prints recent detection passes.
func ListAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	detections, err := database.ListDetections(c.Int("limit"))
	if err != nil {
		return err
	}
	printDetections(c.App.Writer, detections)
	return nil
}

// ShowAction prints one detection pass and its tables. Without an id the
// latest pass is shown.
func ShowAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := detectionIDOrLatest(c, database)
	if err != nil {
		return err
	}
	d, tables, err := database.GetDetection(id)
	if err != nil {
		return err
	}
	printDetection(c.App.Writer, d, tables)
	return nil
}

// ExtractionsAction prints recent extraction requests.
func ExtractionsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := database.ListExtractions(c.String("url"), c.Int("limit"))
	if err != nil {
		return err
	}
	printExtractions(c.App.Writer, list)
	return nil
}

func detectionIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		latest, err := database.ListDetections(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest detection: %w", err)
		}
		if len(latest) == 0 {
			return 0, fmt.Errorf("no detections found. Run 'wtp detect <url>' first")
		}
		return latest[0].DetectionID, nil
	}

	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid detection ID: %s", c.Args().First())
	}
	return id, nil
}

func printDetections(w io.Writer, detections []dbpkg.Detection) {
	if len(detections) == 0 {
		fmt.Fprintln(w, "No detections found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-7s %-30s %s\n", "ID", "Created", "Tables", "Title", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range detections {
		fmt.Fprintf(w, "%-6d %-20s %-7d %-30s %s\n",
			d.DetectionID,
			d.CreatedAt.Format("2006-01-02 15:04:05"),
			d.TableCount,
			truncate(d.Title, 30),
			d.URL,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d detections\n", len(detections))
	fmt.Fprintln(w, "\nTip: Use 'wtp history show <id>' to see the tables")
}

func printDetection(w io.Writer, d *dbpkg.Detection, tables []models.TableInfo) {
	fmt.Fprintf(w, "Detection %d\n", d.DetectionID)
	fmt.Fprintf(w, "  URL:     %s\n", d.URL)
	if d.Title != "" {
		fmt.Fprintf(w, "  Title:   %s\n", d.Title)
	}
	fmt.Fprintf(w, "  Created: %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Tables:  %d\n\n", len(tables))

	for _, t := range tables {
		fmt.Fprintf(w, "  [%d] %s, %d rows, header=%t\n", t.Index, t.Type, t.Rows, t.HasHeader)
		for i, name := range t.Columns {
			physical := i
			if i < len(t.ColumnIndices) {
				physical = t.ColumnIndices[i]
			}
			fmt.Fprintf(w, "      %d: %s\n", physical, name)
		}
	}
}

func printExtractions(w io.Writer, list []dbpkg.Extraction) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No extractions found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-6s %-7s %s\n", "ID", "Created", "Success", "Rows", "Faults", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range list {
		fmt.Fprintf(w, "%-6d %-20s %-8t %-6d %-7d %s\n",
			e.ExtractionID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Success,
			e.RowCount,
			e.FaultCount,
			e.URL,
		)
		if e.ExportPath != "" {
			fmt.Fprintf(w, "       -> %s\n", e.ExportPath)
		}
		if e.Error != "" {
			fmt.Fprintf(w, "       error: %s\n", e.Error)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
