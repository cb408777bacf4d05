package build

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/voyahchat/sitegen/internal/docs"
	"github.com/voyahchat/sitegen/internal/frontmatter"
	"github.com/voyahchat/sitegen/internal/gitmeta"
	"github.com/voyahchat/sitegen/internal/logfields"
	"github.com/voyahchat/sitegen/internal/sitemap"
)

// stageSitemap registers every markdown source, reading frontmatter for URL
// overrides, titles, nav weight and visibility. Last-change times come from
// git history when the content tree sits inside a repository, file mtimes
// otherwise.
func stageSitemap(_ context.Context, bs *BuildState) error {
	loader := docs.NewLoader(bs.Runner.cfg.Content.Dir)
	idx := sitemap.New()
	for _, f := range docs.Markdown(bs.Files) {
		raw, err := loader.Load(f.Source)
		if err != nil {
			return newFatalStageError(StageSitemap, fmt.Errorf("%w: %v", ErrSitemap, err))
		}
		meta, body, err := frontmatter.ParseMeta(raw)
		if err != nil {
			return newFatalStageError(StageSitemap, fmt.Errorf("%w: %s: %v", ErrSitemap, f.Source, err))
		}
		title := meta.Title
		if title == "" {
			title = firstHeading(body)
		}
		if title == "" {
			title = f.Name
		}
		page := sitemap.Page{
			Source: f.Source,
			URL:    normalizeURLOverride(meta.URL),
			Title:  title,
			Weight: meta.Weight,
			Hidden: meta.Hidden,
		}
		if err := idx.Add(page); err != nil {
			return newFatalStageError(StageSitemap, fmt.Errorf("%w: %v", ErrSitemap, err))
		}
		bs.Updated[f.Source] = f.ModTime
	}
	bs.Site = idx
	collectGitTimes(bs)
	return nil
}

// firstHeading returns the text of the first level-1 heading outside fenced
// code, or "".
func firstHeading(body []byte) string {
	inFence := false
	for _, line := range bytes.Split(body, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("# ")) {
			return string(bytes.TrimSpace(trimmed[2:]))
		}
	}
	return ""
}

// normalizeURLOverride uniforms a frontmatter url value into the site's
// relative URL space. Empty stays empty so the sitemap derives the URL from
// the source path.
func normalizeURLOverride(u string) string {
	if u == "" {
		return ""
	}
	u = strings.TrimPrefix(sitemap.Normalize(u), "/")
	return path.Clean(u)
}

// collectGitTimes replaces file mtimes with commit times where git history
// knows the file. Absence of a repository is not an error.
func collectGitTimes(bs *BuildState) {
	c, err := gitmeta.Open(bs.Runner.cfg.Content.Dir)
	if err != nil {
		bs.Runner.log.Debug("Content tree not under git, keeping file mtimes", logfields.Error(err))
		return
	}
	bySource := make(map[string]string, len(bs.Files))
	var paths []string
	for _, f := range docs.Markdown(bs.Files) {
		paths = append(paths, f.Path)
		bySource[f.Path] = f.Source
	}
	infos, err := c.Collect(paths)
	if err != nil {
		bs.Runner.log.Warn("Git history lookup failed", logfields.Error(err))
		return
	}
	for p, info := range infos {
		if src, ok := bySource[p]; ok {
			bs.Updated[src] = info.CommitTime
		}
	}
}
