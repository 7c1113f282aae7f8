package domain

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Page 分页结果
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// NormalizePaging 修正页码 / 每页条数
func NormalizePaging(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func (p Page[T]) Offset() int { return (p.Page - 1) * p.PerPage }
