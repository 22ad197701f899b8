package ui

import (
	"context"
	"image"

	"bigtrip/internal/async"

	"github.com/qeesung/image2ascii/convert"
	"go.uber.org/zap"
)

const (
	pictureWidth  = 24
	pictureHeight = 8
	maxPictures   = 3
)

// PictureSource downloads destination pictures.
type PictureSource interface {
	FetchPicture(ctx context.Context, src string) (image.Image, error)
}

type pictureState int

const (
	pictureLoading pictureState = iota
	pictureReady
	pictureFailed
)

type picture struct {
	state pictureState
	ascii string
}

// pictureCache holds destination pictures rendered as ASCII art. Fetches
// are started by Prefetch only; Lookup never blocks.
type pictureCache struct {
	ctx     context.Context
	source  PictureSource
	runner  async.Runner
	log     *zap.Logger
	entries map[string]*picture
}

func newPictureCache(ctx context.Context, source PictureSource, runner async.Runner, log *zap.Logger) *pictureCache {
	return &pictureCache{
		ctx:     ctx,
		source:  source,
		runner:  runner,
		log:     log,
		entries: make(map[string]*picture),
	}
}

// Prefetch starts downloading every src not seen before.
func (c *pictureCache) Prefetch(srcs []string) {
	for _, src := range srcs {
		src := src
		if _, ok := c.entries[src]; ok {
			continue
		}
		entry := &picture{state: pictureLoading}
		c.entries[src] = entry

		var ascii string
		c.runner.Run(c.ctx, func(ctx context.Context) error {
			img, err := c.source.FetchPicture(ctx, src)
			if err != nil {
				return err
			}
			ascii = convertToASCII(img, pictureWidth, pictureHeight)
			return nil
		}, func(err error) {
			if err != nil {
				c.log.Warn("failed to load picture", zap.String("src", src), zap.Error(err))
				entry.state = pictureFailed
				return
			}
			entry.ascii = ascii
			entry.state = pictureReady
		})
	}
}

// Lookup returns the rendered picture. Unknown sources report loading.
func (c *pictureCache) Lookup(src string) (string, pictureState) {
	entry, ok := c.entries[src]
	if !ok {
		return "", pictureLoading
	}
	return entry.ascii, entry.state
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true
	opts.Ratio = 0.5 // terminal cells are twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
