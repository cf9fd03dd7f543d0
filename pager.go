package ucommon

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/docker/go-units"
)

// Allocator hands out memory that is never freed piece by piece. Everything
// it gave out is dropped at once when the allocator is purged.
type Allocator interface {
	// Alloc returns size bytes.
	Alloc(size int) []byte
	// Hold charges size bytes of typed storage v to the allocator and keeps
	// v reachable until the allocator is purged.
	Hold(v any, size uintptr)
}

var _ Allocator = (*Pager)(nil)

// Pager is an arena Allocator that carves allocations out of fixed-size
// pages. An optional page limit caps its growth; running past the limit is
// fatal.
type Pager struct {
	mu       sync.Mutex
	pagesize int
	limit    int
	pages    [][]byte
	offset   int // used bytes in the last page
	held     []any
	count    int // pages charged, including held storage
}

// NewPager returns a pager with the given page size and page limit. A zero
// page size selects the OS page size, a zero limit leaves the pager
// unbounded.
func NewPager(pagesize, limit int) *Pager {
	if pagesize <= 0 {
		pagesize = os.Getpagesize()
	}
	return &Pager{pagesize: pagesize, limit: limit}
}

// NewPagerSize is NewPager with a human readable page size such as "64KiB".
func NewPagerSize(size string, limit int) (*Pager, error) {
	n, err := units.RAMInBytes(size)
	if err != nil {
		return nil, fmt.Errorf("page size %q: %w", size, err)
	}
	if n <= 0 {
		return nil, fmt.Errorf("page size %q: must be positive", size)
	}
	return NewPager(int(n), limit), nil
}

func (p *Pager) Alloc(size int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if size > p.pagesize {
		fatal("pager", ErrExhausted,
			slog.String("request", units.HumanSize(float64(size))),
			slog.String("pagesize", units.HumanSize(float64(p.pagesize))))
	}

	if len(p.pages) == 0 || p.offset+size > p.pagesize {
		p.grow(1)
		p.pages = append(p.pages, make([]byte, p.pagesize))
		p.offset = 0
	}

	page := p.pages[len(p.pages)-1]
	buf := page[p.offset : p.offset+size : p.offset+size]
	p.offset += size
	return buf
}

func (p *Pager) Hold(v any, size uintptr) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.grow((int(size) + p.pagesize - 1) / p.pagesize)
	p.held = append(p.held, v)
}

// Dup copies b into pager memory.
func (p *Pager) Dup(b []byte) []byte {
	buf := p.Alloc(len(b))
	copy(buf, b)
	return buf
}

// Purge drops every page. Memory handed out earlier must no longer be used
// by anything that expects it to belong to the pager.
func (p *Pager) Purge() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pages = nil
	p.held = nil
	p.offset = 0
	p.count = 0
}

// Pages returns the number of pages charged.
func (p *Pager) Pages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func (p *Pager) Limit() int    { return p.limit }
func (p *Pager) PageSize() int { return p.pagesize }

func (p *Pager) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("pager{pages: %d, size: %s}",
		p.count, units.HumanSize(float64(p.count*p.pagesize)))
}

func (p *Pager) grow(n int) {
	if p.limit > 0 && p.count+n > p.limit {
		fatal("pager", ErrExhausted, slog.Int("pages", p.count), slog.Int("limit", p.limit))
	}
	p.count += n
	Logger().Debug("pager grown",
		slog.String("component", "pager"),
		slog.Int("pages", p.count),
		slog.String("size", units.HumanSize(float64(p.count*p.pagesize))))
}
