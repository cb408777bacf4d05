// Package images publishes discovered assets under content-addressed names.
package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/voyahchat/sitegen/internal/docs"
	"github.com/voyahchat/sitegen/internal/logfields"
)

// Published pairs a source file with its content-addressed output name.
type Published struct {
	SourcePath string // absolute input path
	Name       string // published file name, <hash prefix><ext>
}

// Result holds the outcome of publishing a content tree's assets.
type Result struct {
	Images      map[string]string // source-relative image path -> published URL
	Assets      map[string]string // other assets, same shape
	Files       []Published       // unique files for the write stage to copy
	CacheHits   int
	CacheMisses int
}

// Publisher computes content-addressed names for discovered assets.
type Publisher struct {
	cache      *Cache // nil disables caching
	staticDir  string // published URL prefix, e.g. "/static"
	hashLength int
}

// NewPublisher creates a publisher. cache may be nil.
func NewPublisher(cache *Cache, staticDir string, hashLength int) *Publisher {
	return &Publisher{cache: cache, staticDir: staticDir, hashLength: hashLength}
}

// Publish hashes every asset and builds the source to published-URL maps.
// Legacy raster images whose stem also exists in a modern format (webp,
// avif) get their mapping pointed at the modern copy.
func (p *Publisher) Publish(ctx context.Context, files []docs.File) (*Result, error) {
	res := &Result{
		Images: make(map[string]string),
		Assets: make(map[string]string),
	}
	seen := make(map[string]bool)

	for _, f := range files {
		if !f.IsAsset {
			continue
		}

		hash, err := p.hashFor(ctx, f, res)
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", f.Source, err)
		}

		ext := strings.ToLower(f.Ext)
		name := hash[:p.hashLength] + ext
		url := p.staticDir + "/" + name

		if isImageExt(ext) {
			res.Images[f.Source] = url
		} else {
			res.Assets[f.Source] = url
		}

		if !seen[name] {
			seen[name] = true
			res.Files = append(res.Files, Published{SourcePath: f.Path, Name: name})
		}
	}

	preferModernVariants(res.Images)

	slog.Debug("Assets published",
		logfields.Count(len(res.Files)),
		slog.Int("cache_hits", res.CacheHits),
		slog.Int("cache_misses", res.CacheMisses))

	return res, nil
}

func (p *Publisher) hashFor(ctx context.Context, f docs.File, res *Result) (string, error) {
	mtime := f.ModTime.Unix()

	if p.cache != nil {
		hash, ok, err := p.cache.Lookup(ctx, f.Source, mtime, f.Size)
		if err != nil {
			return "", err
		}
		if ok {
			res.CacheHits++
			return hash, nil
		}
	}
	res.CacheMisses++

	hash, err := hashFile(f.Path)
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		if err := p.cache.Store(ctx, f.Source, mtime, f.Size, hash); err != nil {
			return "", err
		}
	}
	return hash, nil
}

func hashFile(p string) (string, error) {
	file, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("open asset: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash asset: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// preferModernVariants points legacy raster mappings at a modern-format
// copy of the same stem when one exists. Only values change, so ranging
// while assigning is safe.
func preferModernVariants(images map[string]string) {
	for source := range images {
		ext := strings.ToLower(path.Ext(source))
		if !isLegacyRaster(ext) {
			continue
		}
		stem := strings.TrimSuffix(source, path.Ext(source))
		for _, modern := range []string{".webp", ".avif"} {
			if modernURL, ok := images[stem+modern]; ok {
				images[source] = modernURL
				break
			}
		}
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".bmp", ".ico":
		return true
	}
	return false
}

func isLegacyRaster(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return true
	}
	return false
}
