package rimage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"go.viam.com/detectd/utils"
)

// codec is one container format DecodeRaster understands.
type codec struct {
	name         string
	match        func([]byte) bool
	decodeConfig func(io.Reader) (image.Config, error)
	decode       func(io.Reader) (image.Image, error)
	// validate checks the whole payload before the full decode, for codecs that do not report
	// truncation themselves.
	validate func(data []byte, cfg image.Config) error
}

func prefix(magic string) func([]byte) bool {
	return func(data []byte) bool {
		return bytes.HasPrefix(data, []byte(magic))
	}
}

func isWEBP(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

func isTIFF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))
}

// codecs is ordered by how often each format shows up on the wire.
var codecs = []codec{
	{name: "jpeg", match: prefix("\xff\xd8\xff"), decodeConfig: jpeg.DecodeConfig, decode: jpeg.Decode},
	{name: "png", match: prefix("\x89PNG\r\n\x1a\n"), decodeConfig: png.DecodeConfig, decode: png.Decode},
	{name: "qoi", match: prefix("qoif"), decodeConfig: qoi.DecodeConfig, decode: qoi.Decode, validate: validateQOI},
	{name: "webp", match: isWEBP, decodeConfig: webp.DecodeConfig, decode: webp.Decode},
	{name: "gif", match: func(data []byte) bool {
		return bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))
	}, decodeConfig: gif.DecodeConfig, decode: decodeGIF},
	{name: "bmp", match: prefix("BM"), decodeConfig: bmp.DecodeConfig, decode: bmp.Decode},
	{name: "tiff", match: isTIFF, decodeConfig: tiff.DecodeConfig, decode: tiff.Decode},
	{name: "ppm", match: prefix("P6"), decodeConfig: ppm.DecodeConfig, decode: ppm.Decode},
}

// decodeGIF returns the first frame placed on the logical screen, so the result always has the
// size gif.DecodeConfig reports even when the frame covers only part of it.
func decodeGIF(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	frame, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if frame.Bounds() == image.Rect(0, 0, cfg.Width, cfg.Height) {
		return frame, nil
	}
	screen := imaging.New(cfg.Width, cfg.Height, color.Transparent)
	return imaging.Paste(screen, frame, frame.Bounds().Min), nil
}

func sniff(data []byte) (codec, bool) {
	for _, c := range codecs {
		if c.match(data) {
			return c, true
		}
	}
	return codec{}, false
}

// SniffFormat returns the format name of the encoded image in data, judged by its magic bytes
// alone, or the empty string if it is not a supported format.
func SniffFormat(data []byte) string {
	c, ok := sniff(data)
	if !ok {
		return ""
	}
	return c.name
}

// SupportedFormats lists every format name DecodeRaster accepts.
func SupportedFormats() []string {
	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.name)
	}
	return names
}

// MimeType returns the mime type of a format name returned by SniffFormat.
func MimeType(format string) string {
	return utils.MimeTypeForFormat(format)
}
