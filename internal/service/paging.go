package service

import (
	"fmt"
	"sort"
	"strings"

	"alcyxob/fitness-tracker/internal/repository"
)

// PageQuery is a page request as received from a caller: zero-based page,
// page size, sort field name and direction ("desc" for descending).
type PageQuery struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

// Paging bounds page requests.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging is used when no limits are configured.
var DefaultPaging = Paging{DefaultSize: 10, MaxSize: 100}

func (p Paging) normalized() Paging {
	if p.DefaultSize < 1 {
		p.DefaultSize = DefaultPaging.DefaultSize
	}
	if p.MaxSize < 1 {
		p.MaxSize = DefaultPaging.MaxSize
	}
	if p.DefaultSize > p.MaxSize {
		p.DefaultSize = p.MaxSize
	}
	return p
}

// sortFields maps API sort names to storage field names.
type sortFields map[string]string

func (f sortFields) names() string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// request validates q against the paging limits and the allowed sort fields.
// A zero Size takes the default; sizes above the maximum are clamped.
func (p Paging) request(q PageQuery, fields sortFields, defaultSort string) (repository.PageRequest, error) {
	p = p.normalized()

	if q.Page < 0 {
		return repository.PageRequest{}, invalidField("page", "must be greater than or equal to 0")
	}
	size := q.Size
	switch {
	case size == 0:
		size = p.DefaultSize
	case size < 0:
		return repository.PageRequest{}, invalidField("size", "must be greater than or equal to 1")
	case size > p.MaxSize:
		size = p.MaxSize
	}

	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = defaultSort
	}
	field, ok := fields[sortBy]
	if !ok {
		return repository.PageRequest{}, invalidField("sortBy", fmt.Sprintf("unsupported sort field '%s' (allowed: %s)", sortBy, fields.names()))
	}

	return repository.PageRequest{
		Page:      q.Page,
		Size:      size,
		SortField: field,
		Direction: repository.ParseSortDirection(q.Direction),
	}, nil
}
