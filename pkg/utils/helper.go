package utils

import (
	"math"
	"strconv"
)

// ParsePositiveInt parses a query value, falling back to def for empty,
// malformed or non-positive input.
func ParsePositiveInt(value string, def int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// PageOffset is the number of rows skipped before page. Offsets past
// math.MaxInt saturate so the store sees an empty page.
func PageOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt / perPage * perPage
	}
	return (page - 1) * perPage
}
