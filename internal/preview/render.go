// Package preview draws decoded geometries into a small raster image and
// stores it as WebP.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/woozymasta/geocodec/internal/geo"
)

// Options control rendering and encoding.
type Options struct {
	Background color.RGBA
	Fill       color.RGBA
	Stroke     color.RGBA

	// Size is the width and height of the output image in pixels.
	Size int
	// Supersample renders at Size*Supersample and scales down.
	Supersample int
	// StrokeWidth is the line width in output pixels.
	StrokeWidth float32
	// Padding is the empty border as a fraction of Size.
	Padding float64

	Quality  float32
	Lossless bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Background:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		Fill:        color.RGBA{0x3b, 0x82, 0xf6, 0x80},
		Stroke:      color.RGBA{0x1e, 0x3a, 0x8a, 0xff},
		Size:        512,
		Supersample: 4,
		StrokeWidth: 1.5,
		Padding:     0.05,
		Quality:     85,
	}
}

// Render draws geoms into a Size x Size image, fitted to their bounds with
// north up.
func Render(geoms []geo.Geometry, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, errors.Errorf("preview size must be > 0, got %d", opts.Size)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	bbox, err := geo.Bounds(geoms...)
	if err != nil {
		return nil, err
	}

	total := opts.Size * opts.Supersample
	canvas := image.NewRGBA(image.Rect(0, 0, total, total))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if bbox != nil {
		p := newPainter(canvas, bbox, opts)
		for _, g := range geoms {
			p.geometry(g)
		}
	}

	if opts.Supersample == 1 {
		return canvas, nil
	}

	// CatmullRom keeps thin strokes readable on large downscale factors.
	dst := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), draw.Over, nil)

	log.Trace().
		Int("size", opts.Size).
		Int("supersample", opts.Supersample).
		Int("geometries", len(geoms)).
		Msg("Preview rendered")

	return dst, nil
}

// painter maps lon/lat into canvas pixels and rasterizes shapes.
type painter struct {
	canvas *image.RGBA
	z      *vector.Rasterizer
	fill   *image.Uniform
	stroke *image.Uniform

	minLon, minLat float64
	scale          float64
	offX, offY     float64
	size           float64
	width          float32
}

func newPainter(canvas *image.RGBA, bbox []float64, opts Options) *painter {
	size := float64(canvas.Bounds().Dx())
	pad := size * opts.Padding
	inner := size - 2*pad

	dx, dy := bbox[2]-bbox[0], bbox[3]-bbox[1]
	span := math.Max(dx, dy)
	if span == 0 {
		span = 1
	}
	scale := inner / span

	return &painter{
		canvas: canvas,
		z:      vector.NewRasterizer(canvas.Bounds().Dx(), canvas.Bounds().Dy()),
		fill:   image.NewUniform(opts.Fill),
		stroke: image.NewUniform(opts.Stroke),
		minLon: bbox[0],
		minLat: bbox[1],
		scale:  scale,
		offX:   pad + (inner-dx*scale)/2,
		offY:   pad + (inner-dy*scale)/2,
		size:   size,
		width:  opts.StrokeWidth * float32(opts.Supersample),
	}
}

func (p *painter) project(c geo.Coord) (float32, float32) {
	x := p.offX + (c.Lon()-p.minLon)*p.scale
	y := p.size - (p.offY + (c.Lat()-p.minLat)*p.scale)
	return float32(x), float32(y)
}

func (p *painter) geometry(g geo.Geometry) {
	switch g.Type {
	case geo.TypeGeometryCollection:
		for _, child := range g.Geometries {
			p.geometry(child)
		}

	case geo.TypePoint:
		if c, ok := g.Coordinates.(geo.Coord); ok {
			p.point(c)
		}

	case geo.TypeMultiPoint:
		if r, ok := g.Coordinates.(geo.Ring); ok {
			for _, c := range r {
				p.point(c)
			}
		}

	case geo.TypeLineString:
		if r, ok := g.Coordinates.(geo.Ring); ok {
			p.line(r)
		}

	case geo.TypeMultiLineString:
		if rs, ok := g.Coordinates.(geo.RingSet); ok {
			for _, r := range rs {
				p.line(r)
			}
		}

	case geo.TypePolygon:
		p.polygon(g.Coordinates)

	case geo.TypeMultiPolygon:
		if list, ok := g.Coordinates.(geo.RingSetList); ok {
			for _, poly := range list {
				p.polygon(poly)
			}
		}
	}
}

// polygon fills all rings in one pass so holes cancel out, then strokes
// every ring.
func (p *painter) polygon(c geo.Coordinates) {
	var rings geo.RingSet
	switch v := c.(type) {
	case geo.Ring:
		rings = geo.RingSet{v}
	case geo.RingSet:
		rings = v
	default:
		return
	}

	p.reset()
	for _, r := range rings {
		p.path(r)
	}
	p.draw(p.fill)

	for _, r := range rings {
		p.line(r)
	}
}

func (p *painter) path(r geo.Ring) {
	if len(r) < 3 {
		return
	}
	x, y := p.project(r[0])
	p.z.MoveTo(x, y)
	for _, c := range r[1:] {
		x, y = p.project(c)
		p.z.LineTo(x, y)
	}
	p.z.ClosePath()
}

// line strokes every segment as its own quad.
func (p *painter) line(r geo.Ring) {
	half := p.width / 2
	for i := 1; i < len(r); i++ {
		x0, y0 := p.project(r[i-1])
		x1, y1 := p.project(r[i])

		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		p.reset()
		p.z.MoveTo(x0+nx, y0+ny)
		p.z.LineTo(x1+nx, y1+ny)
		p.z.LineTo(x1-nx, y1-ny)
		p.z.LineTo(x0-nx, y0-ny)
		p.z.ClosePath()
		p.draw(p.stroke)
	}
}

func (p *painter) point(c geo.Coord) {
	x, y := p.project(c)
	h := p.width * 1.5

	p.reset()
	p.z.MoveTo(x-h, y-h)
	p.z.LineTo(x+h, y-h)
	p.z.LineTo(x+h, y+h)
	p.z.LineTo(x-h, y+h)
	p.z.ClosePath()
	p.draw(p.stroke)
}

func (p *painter) reset() {
	b := p.canvas.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
}

func (p *painter) draw(src image.Image) {
	p.z.Draw(p.canvas, p.canvas.Bounds(), src, image.Point{})
}
