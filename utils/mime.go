package utils

import "strings"

const (
	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeGIF is for gifs. Only the first frame is ever used.
	MimeTypeGIF = "image/gif"

	// MimeTypeBMP is for windows bitmaps.
	MimeTypeBMP = "image/bmp"

	// MimeTypeTIFF is for tiffs.
	MimeTypeTIFF = "image/tiff"

	// MimeTypeWEBP is for webp images.
	MimeTypeWEBP = "image/webp"

	// MimeTypeQOI is for .qoi "Quite OK Image" for lossless, fast encoding/decoding.
	MimeTypeQOI = "image/qoi"

	// MimeTypePPM is for binary (P6) portable pixmaps.
	MimeTypePPM = "image/x-portable-pixmap"
)

var formatToMimeType = map[string]string{
	"jpeg": MimeTypeJPEG,
	"png":  MimeTypePNG,
	"gif":  MimeTypeGIF,
	"bmp":  MimeTypeBMP,
	"tiff": MimeTypeTIFF,
	"webp": MimeTypeWEBP,
	"qoi":  MimeTypeQOI,
	"ppm":  MimeTypePPM,
}

// MimeTypeForFormat returns the mime type for an image format name as reported by
// image.DecodeConfig. Unknown formats map to the empty string.
func MimeTypeForFormat(format string) string {
	return formatToMimeType[strings.ToLower(format)]
}
