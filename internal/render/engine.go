// Package render is the markdown rendering and cross-document link
// resolution engine. It walks each document's heading structure to emit
// hierarchical collision-free anchors, resolves relative links through the
// sitemap (rendering linked documents on demand so their anchors exist
// before lookup) and serializes minimal HTML5.
//
// The engine is single-threaded and reentrant: a render may recursively
// drive renders of linked documents, bounded by the longest reference chain.
// All shared state lives in an explicit State value owned by the Engine.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	gmutil "github.com/yuin/goldmark/util"

	"github.com/voyahchat/sitegen/internal/frontmatter"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/sitemap"
	"github.com/voyahchat/sitegen/internal/slug"
)

// LoadFunc supplies raw document bytes for a sitemap-relative source path.
// The engine performs no file I/O of its own.
type LoadFunc func(sourcePath string) ([]byte, error)

// Options configure an Engine.
type Options struct {
	Site       *sitemap.Index
	Images     map[string]string // source-relative image path -> published reference
	Assets     map[string]string // origin URL -> local URL
	Load       LoadFunc
	Casing     slug.Case
	URLPrefix  string // prepended to resolved document URLs, default "/"
	Typography bool
	Logger     *slog.Logger
}

// Engine renders documents and owns the build-wide processing state.
type Engine struct {
	site   *sitemap.Index
	images map[string]string
	assets map[string]string
	load   LoadFunc
	casing slug.Case
	prefix string
	state  *State
	md     goldmark.Markdown
	post   Postprocessor
	log    *slog.Logger
}

func New(opts Options) *Engine {
	if opts.Site == nil {
		opts.Site = sitemap.New()
	}
	if opts.Load == nil {
		opts.Load = func(p string) ([]byte, error) {
			return nil, fmt.Errorf("no document loader configured (wanted %s)", p)
		}
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := &Engine{
		site:   opts.Site,
		images: opts.Images,
		assets: opts.Assets,
		load:   opts.Load,
		casing: opts.Casing,
		prefix: opts.URLPrefix,
		state:  NewState(),
		post:   NewMinimalHTML(opts.Typography),
		log:    opts.Logger,
	}
	e.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(gmutil.Prioritized(&docTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(gmutil.Prioritized(&linkRenderer{}, 100)),
		),
	)
	return e
}

// Render produces the final HTML for sourcePath. Link targets are rendered
// recursively as they are encountered; results are memoized, so rendering a
// document twice is free. A call for a document already on the render stack
// reports ErrRenderCycle.
func (e *Engine) Render(sourcePath string) (string, error) {
	target, ok := e.site.URLFor(sourcePath)
	if !ok {
		return "", &RenderError{File: sourcePath, Err: ErrUnknownDocument}
	}
	if out, ok := e.state.Rendered(target); ok {
		return out, nil
	}
	if e.state.rendering(target) {
		return "", &RenderError{File: sourcePath, Err: ErrRenderCycle}
	}

	raw, err := e.load(sourcePath)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", sourcePath, err)
	}
	_, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return "", &RenderError{File: sourcePath, Err: ErrMalformedSource, Detail: err.Error()}
	}
	if err := validateSource(sourcePath, body); err != nil {
		return "", err
	}

	rc := &Context{
		Source:  sourcePath,
		URL:     target,
		Section: sitemap.SectionOf(sourcePath),
		tracker: NewTracker(e.casing),
		anchors: e.state.anchorsFor(target),
		state:   e.state,
		eng:     e,
	}

	e.state.push(target)
	defer e.state.pop()

	pctx := parser.NewContext()
	pctx.Set(renderContextKey, rc)
	doc := e.md.Parser().Parse(text.NewReader(body), parser.WithContext(pctx))
	if rc.err != nil {
		return "", rc.err
	}

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, body, doc); err != nil {
		return "", fmt.Errorf("render %s: %w", sourcePath, err)
	}
	out := e.post.Process(buf.String())
	e.state.rendered[target] = out
	e.state.completed.Add(target)

	e.log.Debug("document rendered",
		logfields.Path(sourcePath),
		logfields.URL(target),
		slog.Int("anchors", rc.anchors.Len()))
	return out, nil
}

// Stats returns the resolution totals accumulated so far.
func (e *Engine) Stats() Stats { return e.state.Stats() }

// RenderAll renders every source path in deterministic order, following
// cross-document references as they occur. The result maps published URLs
// to final HTML. The first fatal defect aborts.
func (e *Engine) RenderAll(sources []string) (map[string]string, error) {
	ordered := append([]string(nil), sources...)
	sort.Strings(ordered)
	for _, src := range ordered {
		if _, err := e.Render(src); err != nil {
			return nil, err
		}
	}
	out := make(map[string]string, len(e.state.rendered))
	for u, h := range e.state.rendered {
		out[u] = h
	}
	return out, nil
}

// validateSource rejects renderer input the engine cannot process: empty
// bodies and unterminated link constructs. Code regions and escaped
// brackets are masked out before the scan.
func validateSource(path string, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &RenderError{File: path, Err: ErrEmptySource}
	}
	scan := maskCodeRegions(body)

	for i := 0; ; {
		j := bytes.Index(scan[i:], []byte("]("))
		if j < 0 {
			break
		}
		i += j + 2
		if !bytes.ContainsRune(scan[i:], ')') {
			return &RenderError{File: path, Err: ErrMalformedSource, Detail: "unterminated link destination"}
		}
	}

	depth := 0
	for _, c := range scan {
		switch c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		}
	}
	if depth > 0 {
		return &RenderError{File: path, Err: ErrMalformedSource, Detail: "unterminated link text"}
	}
	return nil
}

// maskCodeRegions blanks fenced code blocks, inline code spans and escaped
// brackets so the link construct scan only sees prose.
func maskCodeRegions(body []byte) []byte {
	out := make([]byte, len(body))
	copy(out, body)

	inFence := false
	var fenceMark byte
	for start := 0; start < len(out); {
		end := bytes.IndexByte(out[start:], '\n')
		if end < 0 {
			end = len(out)
		} else {
			end += start
		}
		line := out[start:end]
		trimmed := bytes.TrimLeft(line, " \t")
		isFence := bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
		switch {
		case isFence && !inFence:
			inFence = true
			fenceMark = trimmed[0]
			blank(line)
		case isFence && inFence && trimmed[0] == fenceMark:
			inFence = false
			blank(line)
		case inFence:
			blank(line)
		}
		start = end + 1
	}

	// Inline code spans.
	for i := 0; i < len(out); {
		j := bytes.IndexByte(out[i:], '`')
		if j < 0 {
			break
		}
		k := bytes.IndexByte(out[i+j+1:], '`')
		if k < 0 {
			break
		}
		blank(out[i+j : i+j+k+2])
		i += j + k + 2
	}

	// Escaped brackets and parens.
	for i := 0; i+1 < len(out); i++ {
		if out[i] != '\\' {
			continue
		}
		switch out[i+1] {
		case '[', ']', '(', ')':
			out[i], out[i+1] = ' ', ' '
			i++
		}
	}
	return out
}

func blank(b []byte) {
	for i := range b {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
}
