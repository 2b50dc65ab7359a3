// Package page owns a parsed HTML document and serializes changes to it.
// Readers run under a shared lock; every mutation is announced to
// subscribers as a Batch once it has been applied.
package page

import (
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Batch describes one applied mutation.
type Batch struct {
	Seq      uint64
	Selector string
	Removed  int
}

// Page is a live document.
type Page struct {
	mu  sync.RWMutex
	doc *goquery.Document
	url *url.URL
	seq uint64

	subsMu sync.Mutex
	subs   map[int]chan Batch
	nextID int
}

// New wraps an already parsed document. u may be nil.
func New(doc *goquery.Document, u *url.URL) *Page {
	if u != nil {
		doc.Url = u
	}
	return &Page{doc: doc, url: u, subs: make(map[int]chan Batch)}
}

// Parse reads HTML from r.
func Parse(r io.Reader, rawURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	var u *url.URL
	if rawURL != "" {
		if u, err = url.Parse(rawURL); err != nil {
			return nil, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
		}
	}
	return New(doc, u), nil
}

// URL is the address the page was loaded from, or nil.
func (p *Page) URL() *url.URL {
	return p.url
}

// Read runs fn with the document under the read lock. fn must not keep the
// document past its return.
func (p *Page) Read(fn func(doc *goquery.Document) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fn(p.doc)
}

// Root returns the document node. Callers outside Read must treat it as
// read-only.
func (p *Page) Root() *html.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.Get(0)
}

// Remove detaches every element matching selector.
func (p *Page) Remove(selector string) (Batch, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return Batch{}, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return p.Mutate(selector, func(doc *goquery.Document) (int, error) {
		sel := doc.Find(selector)
		n := sel.Length()
		sel.Remove()
		return n, nil
	})
}

// Mutate applies fn under the write lock, then publishes a Batch carrying
// the number of elements fn reports as affected.
func (p *Page) Mutate(selector string, fn func(doc *goquery.Document) (int, error)) (Batch, error) {
	p.mu.Lock()
	n, err := fn(p.doc)
	if err != nil {
		p.mu.Unlock()
		return Batch{}, err
	}
	p.seq++
	b := Batch{Seq: p.seq, Selector: selector, Removed: n}
	p.mu.Unlock()

	p.publish(b)
	return b, nil
}

// Subscribe returns a channel of batches and a function that cancels the
// subscription. A subscriber that falls behind misses batches, never blocks
// the writer; one pending batch is enough to know the page changed.
func (p *Page) Subscribe(buffer int) (<-chan Batch, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Batch, buffer)

	p.subsMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subsMu.Lock()
			delete(p.subs, id)
			p.subsMu.Unlock()
			close(ch)
		})
	}
}

func (p *Page) publish(b Batch) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- b:
		default:
		}
	}
}
