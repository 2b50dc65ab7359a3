// Package observer invalidates a table session when the page it describes
// loses one of the registered tables.
package observer

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/page"
	"github.com/dtnitsch/web-table-parser/pkg/session"
)

// Observer runs until its context is cancelled.
type Observer struct {
	done chan struct{}
}

// Done is closed once the observer has stopped.
func (o *Observer) Done() <-chan struct{} {
	return o.done
}

// Watch starts consuming p's mutation batches on a new goroutine. After each
// batch every registered root is checked, and the whole session is
// invalidated if any of them is detached or collected.
func Watch(ctx context.Context, p *page.Page, s *session.Session, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	batches, cancel := p.Subscribe(16)
	o := &Observer{done: make(chan struct{})}

	go func() {
		defer close(o.done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case b, ok := <-batches:
				if !ok {
					return
				}
				check(p, s, logger, b)
			}
		}
	}()

	return o
}

func check(p *page.Page, s *session.Session, logger *slog.Logger, b page.Batch) {
	entries, gen, err := s.Snapshot()
	if err != nil {
		return
	}

	gone := -1
	_ = p.Read(func(doc *goquery.Document) error {
		root := doc.Get(0)
		for _, e := range entries {
			if _, ok := e.Resolve(root); !ok {
				gone = e.Index
				return nil
			}
		}
		return nil
	})
	if gone < 0 {
		return
	}

	if s.InvalidateAt(gen) {
		logger.Info("Registered table left the page, session invalidated",
			"table", gone, "batch", b.Seq, "selector", b.Selector)
	}
}
