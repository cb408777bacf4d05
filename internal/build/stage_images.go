package build

import (
	"context"
	"fmt"

	"github.com/voyahchat/sitegen/internal/images"
	"github.com/voyahchat/sitegen/internal/logfields"
)

// stageImages publishes assets under content-addressed names. The hash
// cache is optional; an unopenable cache degrades to hashing every file.
func stageImages(ctx context.Context, bs *BuildState) error {
	cfg := bs.Runner.cfg
	var cache *images.Cache
	if cfg.Images.CacheDB != "" {
		c, err := images.OpenCache(cfg.Images.CacheDB)
		if err != nil {
			bs.Runner.log.Warn("Image cache unavailable, hashing without it", logfields.Error(err))
		} else {
			cache = c
			defer func() { _ = cache.Close() }()
		}
	}

	pub := images.NewPublisher(cache, cfg.Images.StaticDir, cfg.Images.HashLength)
	res, err := pub.Publish(ctx, bs.Files)
	if err != nil {
		return newFatalStageError(StageImages, fmt.Errorf("%w: %v", ErrImages, err))
	}
	bs.Images = res
	bs.Report.CacheHits = res.CacheHits
	bs.Report.CacheMisses = res.CacheMisses
	return nil
}
