package pagination

import "fmt"

// Validate reports ErrInvalidPage for a page below 1 and an error for a
// non-positive limit.
func (p Params) Validate() error {
	if p.Page < 1 {
		return ErrInvalidPage
	}
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", p.Limit)
	}
	return nil
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.Limit)
}
