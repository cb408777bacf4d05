// Package docs discovers markdown sources and assets in the content tree.
package docs

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/voyahchat/sitegen/internal/logfields"
)

// File represents a discovered markdown source or asset.
type File struct {
	Path    string // absolute path to the file
	Source  string // path relative to the content dir, slash-separated
	Section string // first path element, empty at the root
	Name    string // file name without extension
	Ext     string // file extension including the dot
	IsAsset bool   // true for images and other non-markdown files
	Size    int64
	ModTime time.Time
}

// Discovery handles content file discovery.
type Discovery struct {
	root   string
	ignore []string
}

// NewDiscovery creates a discovery instance over the given content dir.
func NewDiscovery(root string, ignore []string) *Discovery {
	return &Discovery{root: root, ignore: ignore}
}

// Discover walks the content tree and returns every markdown source and
// asset in deterministic order. A tree with no markdown sources is an error.
func (d *Discovery) Discover() ([]File, error) {
	var files []File

	err := filepath.Walk(d.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if strings.HasPrefix(info.Name(), ".") && p != d.root {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRelativePath, err)
		}
		source := filepath.ToSlash(rel)

		skip, err := d.ignored(source, info.Name())
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		isMarkdown := isMarkdownFile(p)
		isAssetFile := isAsset(p)
		if !isMarkdown && !isAssetFile {
			return nil
		}

		file := File{
			Path:    p,
			Source:  source,
			Section: sectionOf(source),
			Name:    strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
			Ext:     filepath.Ext(info.Name()),
			IsAsset: isAssetFile,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		files = append(files, file)

		fileType := "page"
		if isAssetFile {
			fileType = "asset"
		}
		slog.Debug("Discovered file",
			logfields.Path(source),
			logfields.Section(file.Section),
			slog.String("type", fileType))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, d.root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Source < files[j].Source })

	pages := 0
	for _, f := range files {
		if !f.IsAsset {
			pages++
		}
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSourcesFound, d.root)
	}

	slog.Info("Content discovered",
		logfields.Count(len(files)),
		slog.Int("pages", pages),
		slog.Int("assets", len(files)-pages))

	return files, nil
}

// ignored reports whether source matches one of the configured ignore globs.
func (d *Discovery) ignored(source, base string) (bool, error) {
	for _, pattern := range d.ignore {
		for _, candidate := range []string{source, base} {
			ok, err := path.Match(pattern, candidate)
			if err != nil {
				return false, fmt.Errorf("%w: %s", ErrBadIgnorePattern, pattern)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// Markdown returns only the markdown sources from files.
func Markdown(files []File) []File {
	var out []File
	for _, f := range files {
		if !f.IsAsset {
			out = append(out, f)
		}
	}
	return out
}

// Assets returns only the assets from files.
func Assets(files []File) []File {
	var out []File
	for _, f := range files {
		if f.IsAsset {
			out = append(out, f)
		}
	}
	return out
}

func sectionOf(source string) string {
	if i := strings.IndexByte(source, '/'); i >= 0 {
		return source[:i]
	}
	return ""
}

// isMarkdownFile checks if a file is a markdown source. Only .md files
// participate in URL derivation, so only .md counts.
func isMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}

// isAsset checks if a file is an asset (image, etc.)
func isAsset(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	assetExtensions := []string{
		// Images
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".bmp", ".ico",
		// Documents
		".pdf",
		// Video
		".mp4", ".webm", ".ogv",
	}
	for _, assetExt := range assetExtensions {
		if ext == assetExt {
			return true
		}
	}
	return false
}
