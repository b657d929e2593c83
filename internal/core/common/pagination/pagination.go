package pagination

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"
)

// PerPage is the fixed page size of every list endpoint.
const PerPage = 10

type Params struct {
	Page int
}

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// FromRequest reads the `page` query parameter, defaulting to 1.
func FromRequest(r *http.Request) Params {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return Params{Page: page}
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * PerPage
}

// Scope limits a gorm query to the requested page.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(PerPage)
}

func NewPage[T any](items []T, params Params, total int64) Page[T] {
	lastPage := int((total + PerPage - 1) / PerPage)
	if lastPage < 1 {
		lastPage = 1
	}
	if items == nil {
		items = []T{}
	}
	current := params.Page
	if current < 1 {
		current = 1
	}
	return Page[T]{
		Data: items,
		Meta: Meta{
			CurrentPage: current,
			PerPage:     PerPage,
			Total:       total,
			LastPage:    lastPage,
		},
	}
}
