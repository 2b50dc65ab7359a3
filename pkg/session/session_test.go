package session

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-table-parser/pkg/dialect"
)

func TestSession_Lifecycle(t *testing.T) {
	s := New()

	if _, _, err := s.Snapshot(); !errors.Is(err, ErrNotDetected) {
		t.Fatalf("Snapshot() on new session error = %v, want ErrNotDetected", err)
	}

	gen := s.Replace([]Entry{{Index: 0, Dialect: dialect.PlainTable, Columns: []string{"A"}}})
	if s.State() != Ready {
		t.Errorf("State() = %v, want ready", s.State())
	}
	entries, got, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(entries) != 1 || got != gen {
		t.Errorf("Snapshot() = %d entries at gen %d, want 1 at %d", len(entries), got, gen)
	}

	if !s.Invalidate() {
		t.Error("Invalidate() = false on ready session")
	}
	if s.Invalidate() {
		t.Error("Invalidate() = true on already stale session")
	}
	if _, _, err := s.Snapshot(); !errors.Is(err, ErrStale) {
		t.Errorf("Snapshot() after Invalidate error = %v, want ErrStale", err)
	}
}

func TestSession_InvalidateAtIgnoresOldGeneration(t *testing.T) {
	s := New()
	old := s.Replace([]Entry{{Index: 0}})
	s.Replace([]Entry{{Index: 0}, {Index: 1}})

	if s.InvalidateAt(old) {
		t.Error("InvalidateAt(old generation) = true, want false")
	}
	if s.State() != Ready {
		t.Errorf("State() = %v, want ready", s.State())
	}
	if !s.InvalidateAt(s.Generation()) {
		t.Error("InvalidateAt(current generation) = false, want true")
	}
}

func TestEntry_Resolve(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="wrap"><table id="t"><tr><td>1</td></tr></table></div>`))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	root := doc.Get(0)
	table := doc.Find("#t").Get(0)
	e := Entry{Index: 0, Root: Handle(table)}

	if n, ok := e.Resolve(root); !ok || n != table {
		t.Fatalf("Resolve() = %v, %v before removal", n, ok)
	}
	doc.Find("#wrap").Remove()
	if _, ok := e.Resolve(root); ok {
		t.Error("Resolve() ok after the table was detached")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Replace([]Entry{{Index: i}})
		}(i)
		go func() {
			defer wg.Done()
			s.Invalidate()
			_, _, _ = s.Snapshot()
		}()
	}
	wg.Wait()
	if s.Generation() == 0 {
		t.Error("Generation() = 0 after concurrent updates")
	}
}
