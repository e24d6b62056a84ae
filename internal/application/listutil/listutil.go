// Package listutil parses list query parameters and slices results into pages.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // column name, "" for natural order
	Dir  string // "asc" or "desc"
}

// Desc reports whether the sort direction is descending.
func (s SortParams) Desc() bool { return s.Dir == "desc" }

// ListParams combines all list parameters.
type ListParams struct {
	PageParams
	SortParams
	Search  string            // free-text query from ?q=
	Filters map[string]string // exact-match filters, only keys the caller allowed
}

// PageInfo carries pagination metadata returned with a page of results.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 50

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseListParams parses paging, sort, search and the allowed filters.
// PRE: none
// POST: Sort is "" or one of allowedSort; Dir is "asc" or "desc"; Filters holds only filterKeys
func ParseListParams(q url.Values, allowedSort, filterKeys []string) ListParams {
	lp := ListParams{
		PageParams: ParsePageParams(q),
		SortParams: SortParams{Sort: q.Get("sort"), Dir: q.Get("dir")},
		Search:     strings.TrimSpace(q.Get("q")),
		Filters:    make(map[string]string),
	}
	if !contains(allowedSort, lp.Sort) {
		lp.Sort = ""
	}
	if lp.Dir != "desc" {
		lp.Dir = "asc"
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			lp.Filters[key] = v
		}
	}
	return lp
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages >= 1 and Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the rows of items on the requested page plus its metadata.
// PRE: none
// POST: the returned slice is never nil
func Paginate[T any](items []T, pp PageParams) ([]T, PageInfo) {
	info := NewPageInfo(pp.Page, pp.PerPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, info
}

func contains[T comparable](xs []T, v T) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
