package employee

import (
	"sort"
	"strings"
)

// Sort directions accepted by the listing projection. The names come from
// the directory UI, which toggles column headers between the two.
const (
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// DefaultPageSize matches the directory UI's fixed page length.
const DefaultPageSize = 5

// ListQuery selects, orders and pages the directory listing.
type ListQuery struct {
	Search   string
	SortKey  string
	SortDir  string
	Page     int
	PageSize int
}

type ListPage struct {
	Items      []Employee `json:"items"`
	Page       int        `json:"page"`
	TotalItems int        `json:"totalItems"`
	TotalPages int        `json:"totalPages"`
}

// Project derives one page of the listing view from a snapshot of the
// collection: case-insensitive substring filter on name and email, stable
// sort by the requested key, then fixed-size 1-based pages. A page past the
// end yields empty items, not an error. Pure; identical inputs always give
// identical output.
func Project(records []Employee, q ListQuery) ListPage {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	filtered := filterRecords(records, q.Search)
	sortRecords(filtered, q.SortKey, q.SortDir)

	totalItems := len(filtered)
	totalPages := (totalItems + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	items := make([]Employee, end-start)
	copy(items, filtered[start:end])

	return ListPage{
		Items:      items,
		Page:       page,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

func filterRecords(records []Employee, search string) []Employee {
	filtered := make([]Employee, 0, len(records))
	query := strings.ToLower(strings.TrimSpace(search))
	for _, r := range records {
		if query == "" ||
			strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.Email), query) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func sortRecords(records []Employee, key, dir string) {
	desc := dir == SortDescending

	var less func(a, b *Employee) bool
	switch key {
	case "email":
		less = func(a, b *Employee) bool { return a.Email < b.Email }
	case "createdAt":
		less = func(a, b *Employee) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default: // "name"
		less = func(a, b *Employee) bool { return a.Name < b.Name }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(&records[j], &records[i])
		}
		return less(&records[i], &records[j])
	})
}
