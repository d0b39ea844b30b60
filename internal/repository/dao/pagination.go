package dao

import "gorm.io/gorm"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request. Zero values fall back to the first page of
// DefaultPageSize items.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// paginate counts the rows matched by query and loads one page of them. The
// order is applied after counting since postgres rejects ORDER BY on count(*).
func paginate[T any](query *gorm.DB, order string, page Page) ([]T, int64, Page, error) {
	page = page.normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, page, err
	}

	var results []T
	offset := (page.Number - 1) * page.Size
	if err := query.Order(order).Offset(offset).Limit(page.Size).Find(&results).Error; err != nil {
		return nil, 0, page, err
	}

	return results, total, page, nil
}
