package pagination

import "math"

// CalculateOffset returns the number of rows before a 1-based page.
// Page 1 has offset 0. An offset that does not fit an int saturates at
// math.MaxInt, which still lies past the end of any listing.
func CalculateOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total / limit). An empty listing still
// has one page so the list template always renders.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
