// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images: EXIF auto-orientation,
// downscaling of oversized originals and thumbnail generation.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Image MIME types accepted by Process.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimeWebP = "image/webp"
)

// ErrUnsupportedFormat is returned for anything Process cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options bounds the stored original and the thumbnail.
type Options struct {
	MaxWidth    int
	MaxHeight   int
	ThumbWidth  int
	ThumbHeight int
	Quality     int
}

// DefaultOptions fits originals in 2400x2400 and crops 400x300 thumbnails.
func DefaultOptions() Options {
	return Options{
		MaxWidth:    2400,
		MaxHeight:   2400,
		ThumbWidth:  400,
		ThumbHeight: 300,
		Quality:     88,
	}
}

// Processor applies Options to uploaded images. It holds no state beyond
// its options and is safe for concurrent use.
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts}
}

// Result is a processed image ready to be written to disk.
type Result struct {
	Data      []byte
	Thumbnail []byte
	Ext       string // without dot; webp input is stored as jpg
	MimeType  string
	Width     int
	Height    int
	TakenAt   time.Time // zero when the EXIF capture time is absent
}

// IsImage reports whether mimeType is one Process accepts.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeJPEG, MimePNG, MimeGIF, MimeWebP:
		return true
	}
	return false
}

// Process decodes data of the given MIME type, rotates it upright according
// to its EXIF orientation, shrinks it to fit the configured bounds and
// encodes it together with a thumbnail. EXIF metadata is not carried over.
func (p *Processor) Process(data []byte, mimeType string) (*Result, error) {
	if !IsImage(mimeType) {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	meta := readExif(bytes.NewReader(data))
	img = orient(img, meta.orientation)

	b := img.Bounds()
	if b.Dx() > p.opts.MaxWidth || b.Dy() > p.opts.MaxHeight {
		img = imaging.Fit(img, p.opts.MaxWidth, p.opts.MaxHeight, imaging.Lanczos)
	}

	ext, outMime := outputFormat(mimeType)
	main, err := encode(img, ext, p.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	thumb := imaging.Fill(img, p.opts.ThumbWidth, p.opts.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbData, err := encode(thumb, ext, p.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	return &Result{
		Data:      main,
		Thumbnail: thumbData,
		Ext:       ext,
		MimeType:  outMime,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		TakenAt:   meta.takenAt,
	}, nil
}

type exifMeta struct {
	orientation int
	takenAt     time.Time
}

func readExif(r io.Reader) exifMeta {
	meta := exifMeta{orientation: 1}
	x, err := exif.Decode(r)
	if err != nil {
		return meta
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			meta.orientation = o
		}
	}
	if t, err := x.DateTime(); err == nil {
		meta.takenAt = t.UTC()
	}
	return meta
}

// orient maps EXIF orientations 2..8 to the transform that makes the image upright.
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func outputFormat(mimeType string) (ext, mime string) {
	switch mimeType {
	case MimePNG:
		return "png", MimePNG
	case MimeGIF:
		return "gif", MimeGIF
	default:
		// No pure-Go WebP encoder; WebP input is stored as JPEG.
		return "jpg", MimeJPEG
	}
}

func encode(img image.Image, ext string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch ext {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
