package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 10

	// maxPage keeps (page-1)*size inside int.
	maxPage = math.MaxInt / MaxPageSize
)

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out of range values fall back to page 1 and DefaultPageSize; huge pages
// are clamped.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// LastPage is the number of the final page, at least 1.
func LastPage(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

func ParseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
