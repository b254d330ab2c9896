package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"path"
	"strings"

	"golang.org/x/image/draw"

	"lostpets/internal/domain"
)

// MaxDimension bounds the width and height of uploaded listing photos.
const MaxDimension = 1024

// JPEGQuality is the re-encode quality for normalised photos.
const JPEGQuality = 85

var ErrUnsupported = errors.New("unsupported image format")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Normalize sniffs the attachment bytes and shrinks photos larger than
// MaxDimension. Photos within bounds are returned byte for byte. Shrunk
// photos are turned upright per their EXIF orientation, flattened onto
// white and re-encoded as JPEG under the original base name.
func Normalize(a domain.Attachment) (domain.Attachment, error) {
	detected := http.DetectContentType(a.Data)
	if !allowedMIME[detected] {
		return a, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return a, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= MaxDimension && cfg.Height <= MaxDimension {
		return a, nil
	}

	img, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return a, fmt.Errorf("decoding image: %w", err)
	}
	if format == "jpeg" {
		img = orient(img, exifOrientation(a.Data))
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return a, fmt.Errorf("encoding JPEG: %w", err)
	}
	return domain.Attachment{
		Filename:    jpegName(a.Filename),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

// downscale fits img into maxDim keeping the aspect ratio. The result is
// always opaque: transparent pixels come out white.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > maxDim || h > maxDim {
		if w > h {
			newW = maxDim
			newH = int(float64(h) * float64(maxDim) / float64(w))
		} else {
			newH = maxDim
			newW = int(float64(w) * float64(maxDim) / float64(h))
		}
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func jpegName(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" {
		base = "photo"
	}
	return base + ".jpg"
}
