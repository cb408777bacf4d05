// Package fingerprint computes source content fingerprints used to
// suppress rebuilds when watched files are touched without changing.
package fingerprint

import (
	"fmt"
	"sort"

	"github.com/inful/mdfp"

	"github.com/voyahchat/sitegen/internal/frontmatter"
)

// Compute returns the canonical fingerprint of one markdown source.
// Frontmatter and body hash as separate parts so delimiter style does
// not shift the result. Malformed frontmatter fingerprints by raw
// bytes; the build, not the watcher, reports the defect.
func Compute(content []byte) string {
	fm, body, _, err := frontmatter.Split(content)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body))
}

// Snapshot maps every source to its fingerprint using load.
func Snapshot(sources []string, load func(string) ([]byte, error)) (map[string]string, error) {
	snap := make(map[string]string, len(sources))
	for _, source := range sources {
		content, err := load(source)
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", source, err)
		}
		snap[source] = Compute(content)
	}
	return snap, nil
}

// Diff returns the sorted set of sources whose fingerprint differs
// between two snapshots, including added and removed sources.
func Diff(before, after map[string]string) []string {
	var changed []string
	for source, fp := range after {
		if old, ok := before[source]; !ok || old != fp {
			changed = append(changed, source)
		}
	}
	for source := range before {
		if _, ok := after[source]; !ok {
			changed = append(changed, source)
		}
	}
	sort.Strings(changed)
	return changed
}
