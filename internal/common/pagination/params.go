package pagination

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page must be a positive integer")

// Params represents the pagination of one listing request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParsePage reads a raw page query value. A missing or non-integer value
// means page 1; an integer below 1 is ErrInvalidPage.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1, nil
	}
	if page < 1 {
		return page, ErrInvalidPage
	}
	return page, nil
}
