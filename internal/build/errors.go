package build

import "errors"

// Sentinel domain errors classifying high-level pipeline failures. They are
// always wrapped with contextual information at the call site.
var (
	ErrScan      = errors.New("sitegen: scan error")
	ErrSitemap   = errors.New("sitegen: sitemap error")
	ErrImages    = errors.New("sitegen: image error")
	ErrTemplates = errors.New("sitegen: template error")
	ErrRender    = errors.New("sitegen: render error")
	ErrWrite     = errors.New("sitegen: write error")
)
