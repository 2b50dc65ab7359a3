// Package session holds the tables found by the most recent detection pass
// over one page, and forgets them when the page changes underneath.
package session

import (
	"errors"
	"sync"
	"weak"

	"github.com/dtnitsch/web-table-parser/pkg/dialect"
	"github.com/dtnitsch/web-table-parser/pkg/dom"
	"golang.org/x/net/html"
)

var (
	// ErrNotDetected is returned when extraction runs before any detection.
	ErrNotDetected = errors.New("no tables detected on this page: re-run detection")
	// ErrStale is returned when the page changed after detection.
	ErrStale = errors.New("page changed since detection: re-run detection")
)

// State is the lifecycle of a Session.
type State int

const (
	Empty State = iota
	Ready
	Stale
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Stale:
		return "stale"
	default:
		return "empty"
	}
}

// Entry describes one registered table. Root does not keep the element
// alive: the document owns it.
type Entry struct {
	Index         int
	Dialect       dialect.Dialect
	Columns       []string
	ColumnIndices []int
	RowCount      int
	HasHeader     bool
	Root          weak.Pointer[html.Node]
}

// Handle makes a non-owning reference to n.
func Handle(n *html.Node) weak.Pointer[html.Node] {
	return weak.Make(n)
}

// Resolve returns the entry's root element if it is still alive and still
// attached under doc.
func (e Entry) Resolve(doc *html.Node) (*html.Node, bool) {
	n := e.Root.Value()
	if n == nil || !dom.Attached(doc, n) {
		return nil, false
	}
	return n, true
}

// Session is the table registry of one page. Detection replaces its contents
// wholesale; the mutation observer invalidates it wholesale.
type Session struct {
	mu         sync.RWMutex
	state      State
	generation uint64
	entries    []Entry
}

func New() *Session {
	return &Session{}
}

// Replace installs the result of one detection pass and returns the new
// generation.
func (s *Session) Replace(entries []Entry) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry(nil), entries...)
	s.state = Ready
	s.generation++
	return s.generation
}

// Invalidate discards every entry. It reports whether anything changed.
func (s *Session) Invalidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidateLocked()
}

// InvalidateAt discards every entry only if the session is still at
// generation gen, so a check started before a fresh detection cannot wipe it.
func (s *Session) InvalidateAt(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	return s.invalidateLocked()
}

func (s *Session) invalidateLocked() bool {
	if s.state != Ready {
		return false
	}
	s.entries = nil
	s.state = Stale
	s.generation++
	return true
}

// Snapshot returns a copy of the registered entries and their generation.
func (s *Session) Snapshot() ([]Entry, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case Empty:
		return nil, s.generation, ErrNotDetected
	case Stale:
		return nil, s.generation, ErrStale
	}
	return append([]Entry(nil), s.entries...), s.generation, nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
