package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for content defects. All of them are fatal except
// ErrRenderCycle, which the resolver absorbs by leaving the fragment
// unresolved.
var (
	ErrDuplicateAnchor = errors.New("duplicate heading anchor")
	ErrUnresolvedLink  = errors.New("unresolved relative link")
	ErrDisallowedLink  = errors.New("disallowed relative link extension")
	ErrEmptySource     = errors.New("empty markdown source")
	ErrMalformedSource = errors.New("malformed markdown source")
	ErrRenderCycle     = errors.New("document render cycle")
	ErrUnknownDocument = errors.New("document not in sitemap")
)

// RenderError carries the file context of a content defect so the build
// driver can report where the offending text lives.
type RenderError struct {
	File   string
	Detail string
	Hint   string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.File, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }
