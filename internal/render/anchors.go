package render

import "net/url"

// AnchorMap records, for one document, every anchor alias a link may use
// against the canonical anchor the document actually emits. Aliases are the
// GitHub-style slugs (plain and percent-encoded, duplicate-suffixed) plus
// the canonical anchors themselves. Entries accumulate while the document
// renders and are read-only afterwards.
type AnchorMap struct {
	byAlias map[string]string
}

func NewAnchorMap() *AnchorMap {
	return &AnchorMap{byAlias: make(map[string]string)}
}

// Register maps alias and its percent-encoded form to canonical.
func (m *AnchorMap) Register(alias, canonical string) {
	if alias == "" || canonical == "" {
		return
	}
	m.byAlias[alias] = canonical
	if enc := url.PathEscape(alias); enc != alias {
		m.byAlias[enc] = canonical
	}
}

// Lookup resolves an incoming fragment, trying it as given and URL-decoded.
func (m *AnchorMap) Lookup(fragment string) (string, bool) {
	if c, ok := m.byAlias[fragment]; ok {
		return c, true
	}
	if dec, err := url.PathUnescape(fragment); err == nil && dec != fragment {
		if c, ok := m.byAlias[dec]; ok {
			return c, true
		}
	}
	return "", false
}

// Len returns the number of registered aliases.
func (m *AnchorMap) Len() int { return len(m.byAlias) }
