// Package pagination turns a 1-based page number into offsets and rendering
// metadata for the article listings.
package pagination

import "fmt"

// Config holds the page sizes of the two article listings.
type Config struct {
	ListLimit   int // articles per page on the list page
	SearchLimit int // articles per page on the search page
}

// DefaultConfig returns the default pagination configuration: 10 articles per
// list page, 15 per search page.
func DefaultConfig() Config {
	return Config{
		ListLimit:   10,
		SearchLimit: 15,
	}
}

// Validate rejects page sizes below 1.
func (c Config) Validate() error {
	if c.ListLimit < 1 {
		return fmt.Errorf("list page size must be at least 1, got %d", c.ListLimit)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search page size must be at least 1, got %d", c.SearchLimit)
	}
	return nil
}
