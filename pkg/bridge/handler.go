// Package bridge is the request/response boundary in front of the engine.
// Callers send a models.Request and always get a models.Response back;
// errors and panics never cross it.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/detector"
	"github.com/dtnitsch/web-table-parser/pkg/extractor"
	"github.com/dtnitsch/web-table-parser/pkg/page"
	"github.com/dtnitsch/web-table-parser/pkg/pageinfo"
	"github.com/dtnitsch/web-table-parser/pkg/session"
)

// Recorder keeps a history of bridge calls. Recording failures are logged
// and never fail the call.
type Recorder interface {
	RecordDetection(info models.PageInfo, tables []models.TableInfo) (int64, error)
	RecordExtraction(pageURL string, req models.Request, res models.Response) (int64, error)
}

// Handler serves requests against one page and its table registry.
type Handler struct {
	Page    *page.Page
	Session *session.Session

	Detect  detector.Options
	Extract extractor.Options

	// Recorder is optional.
	Recorder Recorder
	Logger   *slog.Logger
}

// New creates a Handler with a fresh session for p.
func New(p *page.Page, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		Page:    p,
		Session: session.New(),
		Logger:  logger,
	}
	h.Detect.Logger = logger
	h.Extract.Logger = logger
	h.Extract.BaseURL = p.URL()
	return h
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Handle dispatches req to its action.
func (h *Handler) Handle(ctx context.Context, req models.Request) (resp models.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger().Error("Request panicked", "action", req.Action, "panic", r)
			resp = models.NewErrorResponse("internal_error", fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return models.NewErrorResponse("canceled", err.Error())
	}
	if !models.IsValidAction(req.Action) {
		return models.NewUnknownActionResponse(req.Action, suggestAction(req.Action))
	}

	switch req.Action {
	case models.ActionDetectTables:
		return h.detectTables()
	case models.ActionExtractTableData:
		return h.extractTableData(req)
	case models.ActionRemoveElements:
		return h.removeElements(req)
	default:
		return models.NewUnknownActionResponse(req.Action, "")
	}
}

func (h *Handler) detectTables() models.Response {
	var (
		entries []session.Entry
		info    models.PageInfo
	)
	err := h.Page.Read(func(doc *goquery.Document) error {
		entries = detector.Detect(doc.Selection, h.Detect)
		var names []string
		for _, e := range entries {
			names = append(names, e.Columns...)
		}
		info = pageinfo.Analyze(doc, h.Page.URL(), strings.Join(names, " "))
		return nil
	})
	if err != nil {
		return models.NewErrorResponse("detection_error", fmt.Sprintf("failed to detect tables: %v", err))
	}

	h.Session.Replace(entries)
	tables := detector.Infos(entries)

	if h.Recorder != nil {
		if _, err := h.Recorder.RecordDetection(info, tables); err != nil {
			h.logger().Warn("Failed to record detection", "error", err)
		}
	}

	return models.Response{Success: true, Tables: tables, Page: &info}
}

func (h *Handler) extractTableData(req models.Request) models.Response {
	entries, gen, err := h.Session.Snapshot()
	if err != nil {
		return models.NewErrorResponse("stale_session", err.Error(), "Run "+models.ActionDetectTables+" first")
	}

	var res extractor.Result
	err = h.Page.Read(func(doc *goquery.Document) error {
		var err error
		res, err = extractor.Extract(doc, entries, req, h.Extract)
		return err
	})
	if errors.Is(err, session.ErrStale) {
		h.Session.InvalidateAt(gen)
		return models.NewErrorResponse("stale_session", err.Error(), "Run "+models.ActionDetectTables+" again")
	}
	if err != nil {
		return models.NewErrorResponse("extraction_error", fmt.Sprintf("failed to extract tables: %v", err))
	}

	resp := models.Response{Success: true, Data: res.Data, Faults: res.Faults}
	if h.Recorder != nil {
		pageURL := ""
		if u := h.Page.URL(); u != nil {
			pageURL = u.String()
		}
		if _, err := h.Recorder.RecordExtraction(pageURL, req, resp); err != nil {
			h.logger().Warn("Failed to record extraction", "error", err)
		}
	}
	return resp
}

func (h *Handler) removeElements(req models.Request) models.Response {
	if strings.TrimSpace(req.Selector) == "" {
		return models.NewErrorResponse("invalid_request", "removeElements needs a selector")
	}
	b, err := h.Page.Remove(req.Selector)
	if err != nil {
		return models.NewErrorResponse("mutation_error", fmt.Sprintf("failed to remove %q: %v", req.Selector, err))
	}
	return models.Response{Success: true, Removed: b.Removed}
}
