// Package rimage turns untrusted encoded image bytes into validated rasters.
package rimage

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

const (
	// DefaultMaxImageBytes bounds the encoded size of a single image.
	DefaultMaxImageBytes = 16 << 20
	// DefaultMaxPixels bounds the decoded area of a single image.
	DefaultMaxPixels = 40_000_000
)

// DecodeOptions bounds the work DecodeRaster is allowed to do for one buffer.
type DecodeOptions struct {
	MaxBytes  int `json:"max_image_bytes"`
	MaxPixels int `json:"max_pixels"`
}

// DefaultDecodeOptions returns the limits used when none are configured.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxBytes: DefaultMaxImageBytes, MaxPixels: DefaultMaxPixels}
}

func (opts DecodeOptions) withDefaults() DecodeOptions {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxImageBytes
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return opts
}

// Raster is a decoded image in canonical 8-bit non-premultiplied RGBA. Pixels always has its
// origin at (0, 0) and exactly Width*Height pixels.
type Raster struct {
	Width  int
	Height int
	Pixels *image.NRGBA
	// Format is the container the raster was decoded from, e.g. "jpeg".
	Format string
}

// Bounds returns the rectangle the raster covers.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// NewRaster wraps an in-memory image as a Raster, converting it to NRGBA if needed.
func NewRaster(img image.Image, format string) *Raster {
	nrgba := imaging.Clone(img)
	return &Raster{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Pixels: nrgba,
		Format: format,
	}
}

// Decoder decodes images with a fixed set of limits. The zero value uses the defaults. A Decoder
// holds no state between calls and is safe for concurrent use.
type Decoder struct {
	Options DecodeOptions
}

// NewDecoder returns a Decoder enforcing opts.
func NewDecoder(opts DecodeOptions) *Decoder {
	return &Decoder{Options: opts}
}

// Decode is DecodeRaster with the decoder's options.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*Raster, error) {
	return DecodeRaster(ctx, data, d.Options)
}

// CheckSize rejects a buffer that is empty or longer than opts allow, without looking at its
// contents.
func CheckSize(data []byte, opts DecodeOptions) error {
	opts = opts.withDefaults()
	if len(data) == 0 {
		return newDecodeError(ErrEmptyImage, nil)
	}
	if len(data) > opts.MaxBytes {
		return newDecodeError(ErrImageTooLarge, nil)
	}
	return nil
}

// DecodeRaster validates and decodes an encoded image. Size limits are enforced before any pixel
// memory is allocated: the buffer length first, then the dimensions from the image header. Every
// rejection is a *DecodeError.
func DecodeRaster(ctx context.Context, data []byte, opts DecodeOptions) (*Raster, error) {
	ctx, span := trace.StartSpan(ctx, "rimage::DecodeRaster")
	defer span.End()

	opts = opts.withDefaults()
	if err := CheckSize(data, opts); err != nil {
		return nil, err
	}

	c, ok := sniff(data)
	if !ok {
		return nil, newDecodeError(ErrUnsupportedFormat, nil)
	}
	var cfg image.Config
	err := guard(func() (err error) {
		cfg, err = c.decodeConfig(bytes.NewReader(data))
		return err
	})
	if err != nil {
		return nil, newDecodeError(ErrCorruptImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, newDecodeError(ErrZeroArea, nil)
	}
	// compare in two steps so a hostile header cannot overflow the product.
	if cfg.Width > opts.MaxPixels || cfg.Height > opts.MaxPixels/cfg.Width {
		return nil, newDecodeError(ErrTooManyPixels, nil)
	}
	if c.validate != nil {
		if err := c.validate(data, cfg); err != nil {
			return nil, newDecodeError(ErrCorruptImage, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var img image.Image
	err = guard(func() (err error) {
		img, err = c.decode(bytes.NewReader(data))
		return err
	})
	if err != nil {
		return nil, newDecodeError(ErrCorruptImage, err)
	}

	raster := NewRaster(img, c.name)
	if raster.Width != cfg.Width || raster.Height != cfg.Height ||
		len(raster.Pixels.Pix) != 4*raster.Width*raster.Height {
		return nil, newDecodeError(ErrDimensionMismatch, nil)
	}
	return raster, nil
}

// guard runs a codec call, turning a panic on malformed input into an error.
func guard(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("codec panicked: %v", r)
		}
	}()
	return f()
}
