package loan

import (
	"strconv"
	"strings"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/model"
	"github.com/loandesk/loandesk/pkg/server/store"
)

// Listing defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	StatusAll       = "all"
)

// Filter narrows and orders a listing of one owner's applications.
type Filter struct {
	Page       int
	PageSize   int
	SearchText string
	// StatusFilter is a status name or "all".
	StatusFilter string
	SortField    string
	// SortOrder is "asc" or "desc".
	SortOrder string
}

// FilterFromQuery builds a Filter from the query parameters page, limit,
// search, status, sortField and sortOrder. Unparseable numbers fall back to
// the defaults.
func FilterFromQuery(get func(string) string) Filter {
	atoi := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	return Filter{
		Page:         atoi(get("page")),
		PageSize:     atoi(get("limit")),
		SearchText:   get("search"),
		StatusFilter: get("status"),
		SortField:    get("sortField"),
		SortOrder:    get("sortOrder"),
	}
}

// normalize fills in defaults and caps the page size.
func (f Filter) normalize(maxPageSize int) (Filter, error) {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 && f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	f.SearchText = strings.TrimSpace(f.SearchText)

	f.StatusFilter = strings.ToLower(strings.TrimSpace(f.StatusFilter))
	if f.StatusFilter == "" {
		f.StatusFilter = StatusAll
	}
	if f.StatusFilter != StatusAll {
		if _, err := model.ParseStatus(f.StatusFilter); err != nil {
			return f, apierr.InvalidStatus(f.StatusFilter)
		}
	}

	f.SortField = string(store.ParseSortField(f.SortField))
	if strings.ToLower(f.SortOrder) == "asc" {
		f.SortOrder = "asc"
	} else {
		f.SortOrder = "desc"
	}
	return f, nil
}

func (f Filter) query(ownerID string) store.LoanQuery {
	q := store.LoanQuery{
		OwnerID:    ownerID,
		Search:     f.SearchText,
		SortField:  store.SortField(f.SortField),
		Descending: f.SortOrder == "desc",
		Limit:      f.PageSize,
		Offset:     (f.Page - 1) * f.PageSize,
	}
	if f.StatusFilter != StatusAll {
		q.Status = model.Status(f.StatusFilter)
	}
	return q
}

// Page is one page of an owner's applications.
type Page struct {
	Loans       []model.LoanApplication `json:"loans"`
	TotalPages  int                     `json:"totalPages"`
	CurrentPage int                     `json:"currentPage"`
	Total       int64                   `json:"total"`
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
