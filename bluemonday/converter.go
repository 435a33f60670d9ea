// Package bluemonday sanitizes content HTML before conversion. Rendered
// pages execute arbitrary scripts, so markup leaving the browser is treated
// as untrusted.
package bluemonday

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/pagesift/pagesift"
)

// Ensure SanitizingConverter implements pagesift.Converter at compile time.
var _ pagesift.Converter = (*SanitizingConverter)(nil)

// SanitizingConverter strips unsafe markup before delegating to the wrapped
// converter.
type SanitizingConverter struct {
	next   pagesift.Converter
	policy *bluemonday.Policy
}

// NewSanitizingConverter wraps next with a UGC sanitization policy: common
// formatting elements survive, scripts, event handlers, and embedded frames
// do not.
func NewSanitizingConverter(next pagesift.Converter) *SanitizingConverter {
	return &SanitizingConverter{
		next:   next,
		policy: bluemonday.UGCPolicy(),
	}
}

// Convert sanitizes html and passes the result to the wrapped converter.
func (c *SanitizingConverter) Convert(html string) (string, error) {
	return c.next.Convert(c.policy.Sanitize(html))
}
