package render

import (
	"github.com/voyahchat/sitegen/internal/slug"
	"github.com/voyahchat/sitegen/internal/util/sets"
)

// State is the processing state shared by every document rendered in one
// build: which URLs are done, their anchor maps and final HTML, and the
// stack of URLs currently being rendered. It is an explicit value owned by
// the Engine, never ambient, so parallel builds cannot interfere. All
// mutation happens on the single render call stack.
type State struct {
	completed     sets.Set[string]
	anchors       map[string]*AnchorMap
	rendered      map[string]string
	inProgress    []string
	imageMiss     sets.Set[string]
	anchorMiss    sets.Set[string]
	linksResolved int
}

func NewState() *State {
	return &State{
		completed:  sets.New[string](),
		anchors:    make(map[string]*AnchorMap),
		rendered:   make(map[string]string),
		imageMiss:  sets.New[string](),
		anchorMiss: sets.New[string](),
	}
}

// Stats are resolution totals accumulated across every document rendered
// through one State.
type Stats struct {
	Pages             int
	LinksResolved     int
	AnchorsUnresolved int
	ImagesUnmapped    int
}

// Stats returns the running totals for this build.
func (s *State) Stats() Stats {
	return Stats{
		Pages:             len(s.rendered),
		LinksResolved:     s.linksResolved,
		AnchorsUnresolved: s.anchorMiss.Len(),
		ImagesUnmapped:    s.imageMiss.Len(),
	}
}

// Completed reports whether url has finished rendering.
func (s *State) Completed(url string) bool { return s.completed.Has(url) }

// Rendered returns the final HTML for a completed url.
func (s *State) Rendered(url string) (string, bool) {
	h, ok := s.rendered[url]
	return h, ok
}

func (s *State) push(url string) { s.inProgress = append(s.inProgress, url) }

func (s *State) pop() { s.inProgress = s.inProgress[:len(s.inProgress)-1] }

// rendering reports whether url is on the in-progress stack. A hit during
// fragment resolution is a reference cycle.
func (s *State) rendering(url string) bool {
	for _, u := range s.inProgress {
		if u == url {
			return true
		}
	}
	return false
}

// anchorsFor returns the anchor map for url, creating it on first use so
// in-flight documents are observable by their own lookups.
func (s *State) anchorsFor(url string) *AnchorMap {
	m, ok := s.anchors[url]
	if !ok {
		m = NewAnchorMap()
		s.anchors[url] = m
	}
	return m
}

// Context is the per-document environment for one render pass, threaded
// explicitly through every resolver call.
type Context struct {
	Source  string // sitemap-relative markdown path
	URL     string // published url
	Section string // first path segment of Source, "" at tree root

	tracker *Tracker
	anchors *AnchorMap
	state   *State
	eng     *Engine
	err     error
}

// fail records the first fatal error of the pass.
func (c *Context) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// synthesizeAnchor builds a best-effort anchor for a same-page fragment
// whose heading has not been seen yet, prefixing the current heading
// position. The caller uses the result only when it differs from frag.
func (c *Context) synthesizeAnchor(frag string) string {
	fragSlug := slug.Make(frag, slug.Canonical, c.eng.casing)
	if fragSlug == "" {
		return frag
	}
	if prefix := c.tracker.Prefix(); prefix != "" {
		return prefix + "-" + fragSlug
	}
	return fragSlug
}
