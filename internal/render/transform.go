package render

import (
	"fmt"
	"regexp"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	gmutil "github.com/yuin/goldmark/util"
)

// renderContextKey carries the per-document Context through the parser.
var renderContextKey = parser.NewContextKey()

// docTransformer rewrites headings and link destinations in one
// document-order walk. Heading state must be current at the position of
// every link, so the two concerns cannot be split into separate passes.
type docTransformer struct{}

func (t *docTransformer) Transform(doc *gmast.Document, reader text.Reader, pc parser.Context) {
	rc, _ := pc.Get(renderContextKey).(*Context)
	if rc == nil {
		return
	}
	source := reader.Source()
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering || rc.err != nil {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if err := enterHeading(rc, node, source); err != nil {
				rc.fail(err)
				return gmast.WalkStop, nil
			}
		case *gmast.Link:
			dest, err := rc.eng.resolveHref(rc, string(node.Destination))
			if err != nil {
				rc.fail(err)
				return gmast.WalkStop, nil
			}
			node.Destination = []byte(dest)
		case *gmast.Image:
			node.Destination = []byte(rc.eng.resolveImage(rc, string(node.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}

// enterHeading updates the heading tracker, assigns the canonical anchor as
// the heading's id attribute and registers the GitHub alias.
func enterHeading(rc *Context, h *gmast.Heading, source []byte) error {
	raw := headingRawText(h, source)
	cleaned, custom := splitCustomAnchor(nodeText(h, source))
	stripCustomAnchor(h, source)

	canonical, alias, err := rc.tracker.Enter(h.Level, cleaned, raw, custom)
	if err != nil {
		return &RenderError{
			File:   rc.Source,
			Err:    err,
			Detail: fmt.Sprintf("heading %q", cleaned),
			Hint:   "disambiguate with an explicit {#custom-id}",
		}
	}
	if canonical == "" {
		return nil
	}
	h.SetAttribute([]byte("id"), []byte(canonical))
	rc.anchors.Register(alias, canonical)
	rc.anchors.Register(canonical, canonical)
	return nil
}

// headingRawText returns the heading's source line text, custom anchor
// marker included. GitHub slugs the marker as literal text, so the alias
// must be computed from this form.
func headingRawText(h *gmast.Heading, source []byte) string {
	var raw []byte
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw = append(raw, seg.Value(source)...)
	}
	return string(raw)
}

// nodeText collects the rendered text content of a node's subtree.
func nodeText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(source))
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

var reCustomAnchor = regexp.MustCompile(`\s*\{#([\pL\pN][\pL\pN_.-]*)\}\s*$`)

// splitCustomAnchor separates a trailing {#id} marker from heading text.
func splitCustomAnchor(text string) (cleaned, custom string) {
	m := reCustomAnchor.FindStringSubmatchIndex(text)
	if m == nil {
		return text, ""
	}
	return text[:m[0]], text[m[2]:m[3]]
}

// stripCustomAnchor removes a trailing {#id} marker from the heading's last
// text segment so the marker never renders. Markers split across inline
// nodes are left alone.
func stripCustomAnchor(h *gmast.Heading, source []byte) {
	var last *gmast.Text
	for c := h.LastChild(); c != nil; c = c.LastChild() {
		if t, ok := c.(*gmast.Text); ok {
			last = t
		}
	}
	if last == nil {
		return
	}
	v := last.Segment.Value(source)
	loc := reCustomAnchor.FindIndex(v)
	if loc == nil || loc[1] != len(v) {
		return
	}
	if loc[0] == 0 {
		parent := last.Parent()
		parent.RemoveChild(parent, last)
		return
	}
	last.Segment = last.Segment.WithStop(last.Segment.Start + loc[0])
}

// linkRenderer writes link and image destinations verbatim. The resolver
// already produced final hrefs; the default renderer's percent-encoding
// would mangle the decoded Cyrillic anchors it emits.
type linkRenderer struct{}

func (r *linkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindLink, r.renderLink)
	reg.Register(gmast.KindImage, r.renderImage)
}

func (r *linkRenderer) renderLink(w gmutil.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*gmast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return gmast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(gmutil.EscapeHTML(n.Destination))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(gmutil.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	return gmast.WalkContinue, nil
}

func (r *linkRenderer) renderImage(w gmutil.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.Image)
	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(gmutil.EscapeHTML(n.Destination))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(gmutil.EscapeHTML([]byte(nodeText(n, source))))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(gmutil.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	return gmast.WalkSkipChildren, nil
}
