// Package pagination carries page requests and paged results across layers.
package pagination

import (
	"errors"
	"math"
)

var (
	ErrInvalidPageNumber = errors.New("page number must be greater than zero")
	ErrInvalidPageSize   = errors.New("page size must be greater than zero")
)

// Request identifies a 1-based page of a listing.
type Request struct {
	Number int
	Size   int
}

// NewRequest validates the page coordinates.
func NewRequest(number, size int) (Request, error) {
	r := Request{Number: number, Size: size}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

func (r Request) Validate() error {
	if r.Number < 1 {
		return ErrInvalidPageNumber
	}
	if r.Size < 1 {
		return ErrInvalidPageSize
	}
	return nil
}

// Offset returns how many rows precede the page.
func (r Request) Offset() int {
	return (r.Number - 1) * r.Size
}

// Page is one slice of a listing plus the totals needed to navigate it.
type Page[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"totalCount"`
	PageNumber int  `json:"pageNumber"`
	PageSize   int  `json:"pageSize"`
	TotalPages *int `json:"totalPages"`
}

// NewPage builds a page; TotalPages stays nil for an empty listing.
func NewPage[T any](items []T, totalCount int, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{
		Items:      items,
		TotalCount: totalCount,
		PageNumber: req.Number,
		PageSize:   req.Size,
	}
	if totalCount > 0 && req.Size > 0 {
		pages := int(math.Ceil(float64(totalCount) / float64(req.Size)))
		page.TotalPages = &pages
	}
	return page
}

// Map converts the items of a page while keeping its totals.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return Page[U]{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// Slice cuts the requested window out of an already materialized listing.
func Slice[T any](all []T, req Request) Page[T] {
	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPage(items, len(all), req)
}
