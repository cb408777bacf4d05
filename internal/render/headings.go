package render

import (
	"fmt"
	"strings"

	"github.com/voyahchat/sitegen/internal/slug"
	"github.com/voyahchat/sitegen/internal/util/sets"
)

// Tracker follows one document's heading structure and produces the
// canonical anchor for each heading as it is entered. Entering a heading at
// level L truncates every deeper slot first, so the stack never holds stale
// siblings.
type Tracker struct {
	stack   [6]string
	emitted sets.Set[string]
	ghSeen  map[string]int
	casing  slug.Case
}

func NewTracker(casing slug.Case) *Tracker {
	return &Tracker{
		emitted: sets.New[string](),
		ghSeen:  make(map[string]int),
		casing:  casing,
	}
}

// Enter records a heading and returns its canonical anchor together with the
// GitHub-compatible alias (already duplicate-suffixed). cleaned is the
// rendered heading text with any {#id} marker removed, raw is the source
// text with the marker still present, custom is the {#id} override or "".
// A repeated canonical anchor is a hard error; headings whose text slugifies
// to nothing yield empty results without error.
func (t *Tracker) Enter(level int, cleaned, raw, custom string) (canonical, alias string, err error) {
	if level < 1 {
		level = 1
	}
	if level > len(t.stack) {
		level = len(t.stack)
	}
	for i := level - 1; i < len(t.stack); i++ {
		t.stack[i] = ""
	}
	t.stack[level-1] = cleaned

	canonical = custom
	if canonical == "" {
		canonical = t.joinSlugs(level)
	}
	if canonical == "" {
		return "", "", nil
	}
	if t.emitted.Has(canonical) {
		return "", "", fmt.Errorf("%w: %q", ErrDuplicateAnchor, canonical)
	}
	t.emitted.Add(canonical)

	gh := slug.Make(raw, slug.GitHub, t.casing)
	if gh != "" {
		n := t.ghSeen[gh]
		t.ghSeen[gh] = n + 1
		alias = gh
		if n > 0 {
			alias = fmt.Sprintf("%s-%d", gh, n)
		}
	}
	return canonical, alias, nil
}

// Prefix returns the canonical anchor prefix of the current position. Used
// for best-effort same-page forward references.
func (t *Tracker) Prefix() string { return t.joinSlugs(len(t.stack)) }

// joinSlugs joins the slugified stack slots up to level, skipping empty
// ones so the anchor never starts with or doubles the separator.
func (t *Tracker) joinSlugs(level int) string {
	parts := make([]string, 0, level)
	for i := 0; i < level; i++ {
		if t.stack[i] == "" {
			continue
		}
		if s := slug.Make(t.stack[i], slug.Canonical, t.casing); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}
