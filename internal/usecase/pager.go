package usecase

import (
	"sync"

	"flightdesk-service/internal/domain/entity"
)

// Pager keeps the current page over one result set
type Pager struct {
	mu       sync.Mutex
	pageSize int
	set      *entity.FlightResultSet
	page     int
}

// NewPager creates a pager with the given page size
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{pageSize: pageSize, page: 1}
}

// Reset replaces the result set and goes back to page 1
func (p *Pager) Reset(set *entity.FlightResultSet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.set = set
	p.page = 1
}

// Current returns the current page
func (p *Pager) Current() (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Paginate(p.set, p.pageSize, p.page)
}

// Goto moves to page n, refusing pages outside 1..TotalPages
func (p *Pager) Goto(n int) (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	page, err := Paginate(p.set, p.pageSize, n)
	if err != nil {
		return Page{}, err
	}
	p.page = n
	return page, nil
}

// Next advances one page. Advancing past the last page is refused.
func (p *Pager) Next() (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	page, err := Paginate(p.set, p.pageSize, p.page+1)
	if err != nil {
		return Page{}, err
	}
	p.page++
	return page, nil
}

// Prev goes back one page, staying on page 1 when already there
func (p *Pager) Prev() (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.page > 1 {
		p.page--
	}
	return Paginate(p.set, p.pageSize, p.page)
}

// HasNext reports whether Next would succeed
func (p *Pager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.page < TotalPages(p.set.Len(), p.pageSize)
}

// HasPrev reports whether there is a page before the current one
func (p *Pager) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.page > 1
}

// Results returns the result set being paged, or nil
func (p *Pager) Results() *entity.FlightResultSet {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.set
}
