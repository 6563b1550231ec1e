package entity

import (
	"strconv"

	"github.com/gosimple/slug"
)

// fallbackSlug is used when a title has no transliterable characters.
const fallbackSlug = "publication"

// Slugify derives the URL slug of a title: lower-case ASCII words joined by dashes.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return fallbackSlug
	}
	return s
}

// SlugCandidate returns the n-th candidate for base. n == 0 is base itself,
// later candidates get a numeric suffix.
func SlugCandidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
