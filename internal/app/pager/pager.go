// Package pager provides pagination arithmetic and expiring pager sessions
// for multi-page embeds.
package pager

import (
	"errors"
	"sync"
	"time"
)

// PageSize is the number of entries shown per page.
const PageSize = 10

// DefaultTTL is how long a pager stays navigable after its last interaction.
const DefaultTTL = 120 * time.Second

// ErrExpired is returned when navigating a pager past its idle deadline.
var ErrExpired = errors.New("pager expired")

// Paginate returns the half-open [start, end) slice bounds for a 1-based
// page over n entries, plus the total page count. An empty collection still
// has one (empty) page.
func Paginate(n, page int) (start, end, pages int) {
	pages = (n + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start = (page - 1) * PageSize
	end = start + PageSize
	if end > n {
		end = n
	}
	return start, end, pages
}

// Pager is a single message's pagination state. Pages are 1-based;
// Prev and Next wrap around. Navigation refreshes the idle deadline.
type Pager struct {
	mu       sync.Mutex
	page     int
	count    int
	ttl      time.Duration
	deadline time.Time

	now func() time.Time // test hook
}

// New creates a pager over n entries, starting on page 1.
func New(n int) *Pager {
	p := &Pager{
		page: 1,
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	p.count = pageCount(n)
	p.deadline = p.now().Add(p.ttl)
	return p
}

func pageCount(n int) int {
	pages := (n + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns the current 1-based page.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Pages returns the total page count.
func (p *Pager) Pages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Next moves one page forward, wrapping to the first page after the last.
func (p *Pager) Next() (int, error) {
	return p.step(1)
}

// Prev moves one page back, wrapping to the last page before the first.
func (p *Pager) Prev() (int, error) {
	return p.step(-1)
}

func (p *Pager) step(delta int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.After(p.deadline) {
		return 0, ErrExpired
	}

	p.page += delta
	if p.page > p.count {
		p.page = 1
	}
	if p.page < 1 {
		p.page = p.count
	}
	p.deadline = now.Add(p.ttl)
	return p.page, nil
}

// Resize updates the entry count, clamping the current page if the
// collection shrank.
func (p *Pager) Resize(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count = pageCount(n)
	if p.page > p.count {
		p.page = p.count
	}
}

// Expired reports whether the pager's idle deadline has passed.
func (p *Pager) Expired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().After(p.deadline)
}
