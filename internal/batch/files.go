// Package batch works on folders of JSON files: listing, merging them into
// one file and collecting Feature files into a FeatureCollection.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/geocodec/internal/geo"
)

// ListFiles returns the files of dir in lexical order. Names without any
// letter or digit are skipped, and so are subdirectories. With fullPath the
// entries are joined with dir.
func ListFiles(dir string, fullPath bool) ([]string, error) {
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(geo.ErrIoUnavailable, "read dir %s: %v", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.ContainsFunc(e.Name(), isAlnum) {
			continue
		}

		name := e.Name()
		if fullPath {
			name = filepath.Join(dir, name)
		}
		files = append(files, name)
	}

	slices.Sort(files)
	return files, nil
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Merge appends every file of dir to output, in lexical order, with
// delimiter between consecutive files. Output is created when missing and
// appended to otherwise. It returns the number of bytes written.
func Merge(ctx context.Context, dir, output, delimiter string) (int64, error) {
	files, err := ListFiles(dir, true)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, errors.Errorf("the folder %s is empty", dir)
	}

	contents, err := readAll(ctx, files)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, errors.Wrapf(geo.ErrIoUnavailable, "open %s: %v", output, err)
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", output).Msg("Failed to close file")
		}
	}()

	var written int64
	for i, data := range contents {
		if i > 0 {
			n, err := f.WriteString(delimiter)
			written += int64(n)
			if err != nil {
				return written, errors.Wrapf(geo.ErrIoUnavailable, "write %s: %v", output, err)
			}
		}

		n, err := f.Write(data)
		written += int64(n)
		if err != nil {
			return written, errors.Wrapf(geo.ErrIoUnavailable, "write %s: %v", output, err)
		}

		log.Trace().
			Str("file", files[i]).
			Int("done", i+1).
			Int("total", len(files)).
			Msg("File merged")
	}

	log.Debug().
		Str("dir", dir).
		Str("output", output).
		Int("files", len(files)).
		Str("size", humanize.IBytes(uint64(written))).
		Msg("Folder merged")

	return written, nil
}

// readAll reads files in parallel and returns their contents in the order
// of files.
func readAll(ctx context.Context, files []string) ([][]byte, error) {
	contents := make([][]byte, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(geo.ErrIoUnavailable, "read %s: %v", path, err)
			}
			contents[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
