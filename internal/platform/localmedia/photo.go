package localmedia

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
)

const (
	PhotoWidth   = 640
	PhotoHeight  = 480
	PhotoQuality = 90

	// Upper bounds on the dimensions a JPEG header may declare.
	MaxPhotoSide   = 8192
	MaxPhotoPixels = 24_000_000

	jpegDataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrNotJPEGDataURL = errors.New("photo must be a data:image/jpeg;base64 URL")
	ErrPhotoTooLarge  = errors.New("photo dimensions are too large")
)

// DecodeJPEGDataURL returns the bytes of a data:image/jpeg;base64 URL.
func DecodeJPEGDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, jpegDataURLPrefix) {
		return nil, ErrNotJPEGDataURL
	}
	return DecodeBase64Image(s)
}

// DecodeBase64Image accepts either a JPEG data URL or bare base64.
func DecodeBase64Image(s string) ([]byte, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(s, jpegDataURLPrefix))
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return data, nil
}

// FitJPEG scales the image to cover width x height, crops the overflow
// around the center and re-encodes it as JPEG.
func FitJPEG(data []byte, width, height, quality int) ([]byte, error) {
	if err := CheckJPEGSize(data); err != nil {
		return nil, err
	}
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, coverRect(src.Bounds(), width, height), draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// CheckJPEGSize reads only the JPEG header and rejects images whose declared
// dimensions exceed MaxPhotoSide or MaxPhotoPixels.
func CheckJPEGSize(data []byte) error {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode jpeg header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > MaxPhotoSide || cfg.Height > MaxPhotoSide ||
		int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return fmt.Errorf("%w: %dx%d", ErrPhotoTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// coverRect is the largest centered sub-rectangle of b with the aspect ratio
// width:height.
func coverRect(b image.Rectangle, width, height int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w*height > h*width {
		cropW := h * width / height
		x0 := b.Min.X + (w-cropW)/2
		return image.Rect(x0, b.Min.Y, x0+cropW, b.Max.Y)
	}
	cropH := w * height / width
	y0 := b.Min.Y + (h-cropH)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+cropH)
}
