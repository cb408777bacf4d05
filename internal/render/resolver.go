package render

import (
	"errors"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/voyahchat/sitegen/internal/logfields"
)

// linkKind classifies an href. Classification is pure and total: every href
// maps to exactly one kind, tried in a fixed order.
type linkKind int

const (
	linkExternal linkKind = iota
	linkAbsolute
	linkDisallowed
	linkAnchor
	linkMarkdown
	linkAsset
)

var (
	reScheme     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	reHashedName = regexp.MustCompile(`^[0-9a-f]{12,}\.[A-Za-z0-9]+$`)
)

var disallowedExts = []string{".html", ".php", ".asp", ".jsp"}

func classify(href string) linkKind {
	switch {
	case href == "":
		return linkAsset
	case reScheme.MatchString(href), strings.HasPrefix(href, "//"):
		return linkExternal
	case strings.HasPrefix(href, "/"):
		return linkAbsolute
	case hasDisallowedExt(href):
		return linkDisallowed
	case strings.HasPrefix(href, "#"):
		return linkAnchor
	case isMarkdownHref(href):
		return linkMarkdown
	default:
		return linkAsset
	}
}

func hasDisallowedExt(href string) bool {
	p, _, _ := splitRef(href)
	low := strings.ToLower(p)
	for _, ext := range disallowedExts {
		if strings.HasSuffix(low, ext) {
			return true
		}
	}
	return false
}

func isMarkdownHref(href string) bool {
	p, _, _ := splitRef(href)
	return strings.HasSuffix(strings.ToLower(p), ".md")
}

// splitRef splits an href into its path, query (with leading "?") and
// fragment (without leading "#") parts.
func splitRef(href string) (p, query, fragment string) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href, fragment = href[:i], href[i+1:]
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href, query = href[:i], href[i:]
	}
	return href, query, fragment
}

// resolveHref rewrites one link destination. External and absolute hrefs
// pass through, relative markdown links resolve through the sitemap, plain
// fragments resolve against the current document. Unknown relative targets
// and disallowed extensions are fatal.
func (e *Engine) resolveHref(rc *Context, href string) (string, error) {
	switch classify(href) {
	case linkExternal, linkAbsolute:
		return href, nil
	case linkDisallowed:
		return "", &RenderError{
			File:   rc.Source,
			Err:    ErrDisallowedLink,
			Detail: href,
			Hint:   "relative links must target .md sources or absolute URLs",
		}
	case linkAnchor:
		frag, err := e.resolveFragment(rc, rc.URL, preferDecoded(strings.TrimPrefix(href, "#")))
		if err != nil {
			return "", err
		}
		return "#" + frag, nil
	case linkMarkdown:
		return e.resolveMarkdown(rc, href)
	default:
		return href, nil
	}
}

// resolveMarkdown resolves a relative .md href to the published URL of its
// target, carrying query and fragment along.
func (e *Engine) resolveMarkdown(rc *Context, href string) (string, error) {
	base, query, frag := splitRef(href)

	source, ok := e.lookupSource(rc, base)
	if !ok {
		return "", &RenderError{File: rc.Source, Err: ErrUnresolvedLink, Detail: href}
	}
	target, _ := e.site.URLFor(source)
	rc.state.linksResolved++

	out := e.prefix + target + query
	if frag == "" {
		return out, nil
	}
	frag, err := e.resolveFragment(rc, target, preferDecoded(frag))
	if err != nil {
		return "", err
	}
	return out + "#" + frag, nil
}

// lookupSource maps a relative markdown href base to a sitemap source key:
// parent-relative algebra for ../ prefixes, the verbatim key, the
// section-qualified key, then a basename search preferring the current
// section.
func (e *Engine) lookupSource(rc *Context, base string) (string, bool) {
	var candidates []string
	if strings.HasPrefix(base, "../") || strings.HasPrefix(base, "./") {
		key := path.Clean(path.Join(path.Dir(rc.Source), base))
		if !strings.HasPrefix(key, "../") {
			candidates = append(candidates, key)
		}
	} else {
		candidates = append(candidates, base)
		if rc.Section != "" {
			candidates = append(candidates, rc.Section+"/"+base)
		}
	}
	for _, key := range candidates {
		if _, ok := e.site.URLFor(key); ok {
			return key, true
		}
	}
	return e.site.ByBasename(path.Base(base), rc.Section)
}

// preferDecoded URL-decodes a fragment and keeps the decoded form when it
// carries non-ASCII text, which reads better in emitted hrefs.
func preferDecoded(frag string) string {
	dec, err := url.PathUnescape(frag)
	if err != nil || dec == frag {
		return frag
	}
	for _, r := range dec {
		if r > unicode.MaxASCII {
			return dec
		}
	}
	return frag
}

// resolveFragment maps a fragment to the canonical anchor of target,
// rendering the target document first when its anchors are not yet known.
// Cycles and unknown anchors leave the fragment unchanged; only a fatal
// defect inside a recursively rendered target returns an error.
func (e *Engine) resolveFragment(rc *Context, target, frag string) (string, error) {
	if frag == "" {
		return frag, nil
	}
	if target == rc.URL {
		if canonical, ok := rc.anchors.Lookup(frag); ok {
			return canonical, nil
		}
		if synth := rc.synthesizeAnchor(frag); synth != frag {
			return synth, nil
		}
		return frag, nil
	}
	if !e.state.Completed(target) {
		if e.state.rendering(target) {
			e.warnAnchorOnce(rc, target, frag, "reference cycle")
			return frag, nil
		}
		src, ok := e.site.SourceFor(target)
		if !ok {
			e.warnAnchorOnce(rc, target, frag, "target not in sitemap")
			return frag, nil
		}
		if _, err := e.Render(src); err != nil {
			if errors.Is(err, ErrRenderCycle) {
				e.warnAnchorOnce(rc, target, frag, "reference cycle")
				return frag, nil
			}
			return "", err
		}
	}
	if m, ok := e.state.anchors[target]; ok {
		if canonical, ok := m.Lookup(frag); ok {
			return canonical, nil
		}
	}
	e.warnAnchorOnce(rc, target, frag, "no matching heading")
	return frag, nil
}

// warnAnchorOnce logs an unresolved fragment at most once per distinct
// target+fragment pair.
func (e *Engine) warnAnchorOnce(rc *Context, target, frag, reason string) {
	key := target + "#" + frag
	if e.state.anchorMiss.Has(key) {
		return
	}
	e.state.anchorMiss.Add(key)
	e.log.Warn("anchor left unresolved",
		logfields.Path(rc.Source),
		logfields.Target(target),
		logfields.Anchor(frag),
		"reason", reason)
}

// resolveImage maps an image source through the asset and image mappings.
// Misses are logged once per distinct path and passed through unchanged;
// the image pipeline may simply not have seen the file yet.
func (e *Engine) resolveImage(rc *Context, src string) string {
	if local, ok := e.assets[src]; ok {
		return local
	}
	if src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "//") || reScheme.MatchString(src) {
		return src
	}
	if reHashedName.MatchString(path.Base(src)) {
		return src
	}
	key := strings.ReplaceAll(src, `\`, "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	if ref, ok := e.images[key]; ok {
		return ref
	}
	if rc.Section != "" {
		if ref, ok := e.images[rc.Section+"/"+key]; ok {
			return ref
		}
	}
	if ref, ok := e.imageByBasename(key, rc.Section); ok {
		return ref
	}
	if !e.state.imageMiss.Has(src) {
		e.state.imageMiss.Add(src)
		e.log.Warn("image not in mapping",
			logfields.Path(rc.Source),
			logfields.Target(src))
	}
	return src
}

// imageByBasename finds a mapping key ending in the same basename,
// preferring keys inside the current section, then lexicographic order for
// determinism.
func (e *Engine) imageByBasename(key, section string) (string, bool) {
	suffix := "/" + path.Base(key)
	var hits []string
	for k := range e.images {
		if strings.HasSuffix("/"+k, suffix) {
			hits = append(hits, k)
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.Strings(hits)
	for _, k := range hits {
		if section != "" && strings.HasPrefix(k, section+"/") {
			return e.images[k], true
		}
	}
	return e.images[hits[0]], true
}
