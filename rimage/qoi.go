package rimage

import (
	"bytes"
	"image"

	"github.com/pkg/errors"
)

const qoiHeaderSize = 14

var qoiEndMarker = []byte{0, 0, 0, 0, 0, 0, 0, 1}

// validateQOI walks the chunk stream of a QOI payload and checks that it describes exactly
// cfg.Width*cfg.Height pixels followed by the end marker. The QOI decoder returns a partially
// filled image without error when its input runs out, so truncation has to be caught here.
func validateQOI(data []byte, cfg image.Config) error {
	if len(data) < qoiHeaderSize+len(qoiEndMarker) {
		return errors.New("qoi: payload shorter than header and end marker")
	}
	if !bytes.HasSuffix(data, qoiEndMarker) {
		return errors.New("qoi: missing end marker")
	}
	want := cfg.Width * cfg.Height
	body := data[qoiHeaderSize : len(data)-len(qoiEndMarker)]
	seen := 0
	for i := 0; i < len(body); {
		if seen >= want {
			return errors.Errorf("qoi: %d trailing bytes after the last pixel", len(body)-i)
		}
		b := body[i]
		switch {
		case b == 0xfe: // rgb
			i += 4
			seen++
		case b == 0xff: // rgba
			i += 5
			seen++
		case b>>6 == 0b10: // luma
			i += 2
			seen++
		case b>>6 == 0b11: // run
			i++
			seen += int(b&0x3f) + 1
		default: // index, diff
			i++
			seen++
		}
		if i > len(body) {
			return errors.New("qoi: chunk runs into the end marker")
		}
	}
	if seen != want {
		return errors.Errorf("qoi: stream encodes %d pixels, header declares %d", seen, want)
	}
	return nil
}
