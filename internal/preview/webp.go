package preview

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/geocodec/internal/geo"
)

// Encode writes img as WebP.
func Encode(w io.Writer, img image.Image, opts Options) error {
	if err := webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: opts.Quality}); err != nil {
		return errors.Wrap(err, "encode webp")
	}
	return nil
}

// WriteFile writes img as WebP to path, creating parent directories.
func WriteFile(path string, img image.Image, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(geo.ErrIoUnavailable, "create %s: %v", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(geo.ErrIoUnavailable, "create %s: %v", path, err)
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return Encode(f, img, opts)
}

// WriteTiles slices img into a z/x/y.webp pyramid under dir, from zoom 0
// (one tile) to zoomLimit. Existing non-empty tiles are kept unless force
// is set.
func WriteTiles(ctx context.Context, img image.Image, dir string, zoomLimit, tileSize int, force bool, opts Options) error {
	if tileSize <= 0 {
		tileSize = 256
	}

	for z := 0; z <= zoomLimit; z++ {
		// Grid size: 2^z
		gridSize := 1 << z
		totalPixels := gridSize * tileSize

		log.Debug().
			Int("zoom", z).
			Int("grid", gridSize).
			Int("px", totalPixels).
			Msg("Processing zoom level")

		// resize from the source every time so quality does not degrade
		level := image.NewRGBA(image.Rect(0, 0, totalPixels, totalPixels))
		xdraw.CatmullRom.Scale(level, level.Bounds(), img, img.Bounds(), draw.Over, nil)

		g, gctx := errgroup.WithContext(ctx)
		// limit file I/O concurrency
		g.SetLimit(20)

		for x := 0; x < gridSize; x++ {
			for y := 0; y < gridSize; y++ {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}

					outPath := filepath.Join(dir, fmt.Sprint(z), fmt.Sprint(x), fmt.Sprint(y)+".webp")
					if !force {
						if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
							return nil
						}
					}

					rect := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
					return WriteFile(outPath, level.SubImage(rect), opts)
				})
			}
		}

		if err := g.Wait(); err != nil {
			return errors.WithMessagef(err, "zoom %d", z)
		}
	}

	return nil
}
