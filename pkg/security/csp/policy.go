// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// directiveOrder fixes the order directives appear in the header.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// CSPBuilder assembles a policy directive by directive.
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'self'").
//	    ImgSrc("'self'", "data:").
//	    Build()
//	// "default-src 'self'; img-src 'self' data:"
//
// A builder is not safe for concurrent mutation; share it read-only or Clone it.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder returns an empty builder.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(name string, sources []string) *CSPBuilder {
	if len(sources) == 0 {
		delete(b.directives, name)
		return b
	}
	b.directives[name] = append([]string(nil), sources...)
	return b
}

// DefaultSrc sets default-src, the fallback of the other fetch directives.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder { return b.set("style-src", sources) }

// ImgSrc sets img-src.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder { return b.set("img-src", sources) }

// FontSrc sets font-src.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder { return b.set("font-src", sources) }

// ConnectSrc sets connect-src.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors; "'none'" forbids framing.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction restricts where forms may submit.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder { return b.set("form-action", sources) }

// BaseUri restricts the <base> element.
func (b *CSPBuilder) BaseUri(sources ...string) *CSPBuilder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder { return b.set("object-src", sources) }

// ReportUri sets where browsers post violation reports. An empty uri removes it.
func (b *CSPBuilder) ReportUri(uri string) *CSPBuilder {
	if uri == "" {
		return b.set("report-uri", nil)
	}
	return b.set("report-uri", []string{uri})
}

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Clone returns an independent copy of b.
func (b *CSPBuilder) Clone() *CSPBuilder {
	c := &CSPBuilder{directives: make(map[string][]string, len(b.directives)), reportOnly: b.reportOnly}
	for k, v := range b.directives {
		c.directives[k] = append([]string(nil), v...)
	}
	return c
}

// Build returns the header value, or "" when no directive is set.
func (b *CSPBuilder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, name := range directiveOrder {
		if sources := b.directives[name]; len(sources) > 0 {
			parts = append(parts, name+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy is sent in.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// PagePolicy is the policy of the HTML pages. Article bodies may embed
// remote images; delete links confirm with an inline handler.
func PagePolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:", "https:").
		FontSrc("'self'").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseUri("'self'").
		ObjectSrc("'none'")
}

// EndpointPolicy is the policy of the non-HTML endpoints (health, metrics).
func EndpointPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseUri("'none'").
		FormAction("'none'")
}
