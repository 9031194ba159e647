package service

// Page is one page of a listing with the totals needed to render pagination
type Page[T any] struct {
	TotalCount int64
	TotalPage  int
	Items      []T
}

// PageRequest selects a 1-based page of take items
type PageRequest struct {
	Page int
	Take int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// MaxPage keeps (page-1)*take far from int overflow
	MaxPage = 1_000_000
)

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Take < 1 {
		p.Take = defaultPageSize
	}
	if p.Take > maxPageSize {
		p.Take = maxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Take
}

func newPage[T any](items []T, total int64, take int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		TotalCount: total,
		TotalPage:  int((total + int64(take) - 1) / int64(take)),
		Items:      items,
	}
}
