package queryparams

import "strings"

// Sayfalama varsayılanları.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultOrderBy = "desc"
)

// ListParams liste görünümlerinin ortak sorgu parametreleri.
type ListParams struct {
	Page       int    `query:"page"`
	PerPage    int    `query:"per_page"`
	SortBy     string `query:"sort_by"`
	OrderBy    string `query:"order_by"`
	Query      string `query:"q"`
	Role       string `query:"role"`
	Status     string `query:"status"`
	Visibility string `query:"visibility"`
}

// DefaultListParams verilen sıralama sütunuyla varsayılan parametreleri üretir.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		OrderBy: DefaultOrderBy,
	}
}

// Validate aralık dışı değerleri varsayılanlara çeker.
func (p *ListParams) Validate() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 || p.PerPage > MaxPerPage {
		p.PerPage = DefaultPerPage
	}
	orderBy := strings.ToLower(p.OrderBy)
	if orderBy != "asc" && orderBy != "desc" {
		p.OrderBy = DefaultOrderBy
	} else {
		p.OrderBy = orderBy
	}
}

// CalculateOffset SQL OFFSET değerini hesaplar.
func (p ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

// CalculateTotalPages toplam sayfa sayısını hesaplar.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((totalItems + int64(perPage) - 1) / int64(perPage))
}

// PaginationMeta liste yanıtlarının sayfalama bilgisi.
type PaginationMeta struct {
	CurrentPage int
	PerPage     int
	TotalItems  int64
	TotalPages  int
}

// PaginatedResult veri + sayfalama bilgisini birlikte taşır.
type PaginatedResult struct {
	Data interface{}
	Meta PaginationMeta
}
