package repository

import "gorm.io/gorm"

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Page selects a window of a listing. Zero values mean "everything".
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes user supplied page and limit values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Size < 1 {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.Size)
}
