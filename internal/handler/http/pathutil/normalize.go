package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic blog routes, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/blog/publication/modifier/[^/]+$`), Template: "/blog/publication/modifier/:id"},
	{Pattern: regexp.MustCompile(`^/blog/publication/suppression/[^/]+$`), Template: "/blog/publication/suppression/:id"},
	{Pattern: regexp.MustCompile(`^/blog/commentaire/suppression/[^/]+$`), Template: "/blog/commentaire/suppression/:id"},
	{Pattern: regexp.MustCompile(`^/blog/publication/[^/]+$`), Template: "/blog/publication/:slug"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// Article slugs and comment ids collapse into their route template; static paths
// pass through unchanged. Query strings and the trailing slash are ignored.
//
//	NormalizePath("/blog/publication/hello-world/")       // "/blog/publication/:slug"
//	NormalizePath("/blog/publication/modifier/12/")       // "/blog/publication/modifier/:id"
//	NormalizePath("/blog/publications/liste/?page=3")     // "/blog/publications/liste"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
