package common

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/bridge"
	"github.com/dtnitsch/web-table-parser/pkg/caching"
	"github.com/dtnitsch/web-table-parser/pkg/detector"
	"github.com/dtnitsch/web-table-parser/pkg/extractor"
	"github.com/dtnitsch/web-table-parser/pkg/fetcher"
	"github.com/dtnitsch/web-table-parser/pkg/page"
)

// Engine bundles what every command needs to turn a source into a bridge
// handler.
type Engine struct {
	Config  *models.Config
	Fetcher *fetcher.Fetcher
	Detect  detector.Options
	Extract extractor.Options
	Logger  *slog.Logger
}

// NewEngine builds the fetcher and engine options from cfg.
func NewEngine(cfg *models.Config, logger *slog.Logger) (*Engine, error) {
	annotate, err := AnnotateOverrides(cfg)
	if err != nil {
		return nil, err
	}

	var cache *caching.Cache
	if cfg.CacheDir != "" {
		cache, err = caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	f := fetcher.NewFetcher(cfg.FetchTimeout, cache)
	f.Refresh = cfg.Refresh

	naming := NamingRules(cfg)
	return &Engine{
		Config:  cfg,
		Fetcher: f,
		Detect:  detector.Options{Naming: naming, Logger: logger},
		Extract: extractor.Options{Naming: naming, Annotate: annotate, Logger: logger},
		Logger:  logger,
	}, nil
}

// Open loads source and returns a handler over the parsed page.
func (e *Engine) Open(ctx context.Context, source string) (*bridge.Handler, error) {
	src, err := e.Fetcher.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	if src.FromCache {
		e.Logger.Info("Using cached HTML", "url", src.URL)
	}
	e.Logger.Debug("Page loaded", "url", src.URL, "bytes", len(src.HTML), "hash", ContentHash(src.HTML))
	return e.Handler(src.HTML, src.URL)
}

// Handler parses markup and wires a handler to it.
func (e *Engine) Handler(markup []byte, rawURL string) (*bridge.Handler, error) {
	p, err := page.Parse(bytes.NewReader(markup), rawURL)
	if err != nil {
		return nil, err
	}

	h := bridge.New(p, e.Logger)
	h.Detect = e.Detect
	h.Extract = e.Extract
	h.Extract.BaseURL = p.URL()
	return h, nil
}

// Fail turns an unsuccessful response into an error.
func Fail(resp models.Response) error {
	if resp.Success {
		return nil
	}
	msg := resp.Error
	if len(resp.SuggestedActions) > 0 {
		msg += " (" + resp.SuggestedActions[0] + ")"
	}
	return fmt.Errorf("%s: %s", resp.ErrorType, msg)
}

// PageURL returns the page address of h as a string.
func PageURL(h *bridge.Handler) string {
	var u *url.URL
	if h.Page != nil {
		u = h.Page.URL()
	}
	if u == nil {
		return ""
	}
	return u.String()
}
