package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/config"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageErrorKind classifies an image load failure.
type ImageErrorKind int

const (
	ImageFetchFailed ImageErrorKind = iota + 1
	ImageDecodeFailed
	ImageUnsupported
)

func (k ImageErrorKind) String() string {
	switch k {
	case ImageFetchFailed:
		return "fetch"
	case ImageDecodeFailed:
		return "decode"
	case ImageUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ImageError is returned for any failure while loading a question image.
// It is never fatal; the question is shown without its picture.
type ImageError struct {
	Kind ImageErrorKind
	Ref  string
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s %s: %v", e.Kind, e.Ref, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// ImageService loads question images and scales them to the display size.
type ImageService struct {
	client    *http.Client
	userAgent string
	size      int
	maxBytes  int64
	maxPixels int64
	log       zerolog.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(cfg *config.Config, log zerolog.Logger) *ImageService {
	return &ImageService{
		client:    &http.Client{Timeout: cfg.ImageTimeout},
		userAgent: cfg.ImageUserAgent,
		size:      cfg.ImageSize,
		maxBytes:  cfg.ImageMaxBytes,
		maxPixels: cfg.ImageMaxPixels,
		log:       logger.Component(log, "image_service"),
	}
}

// IsRemote reports whether ref should be fetched over HTTP.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch reads the image behind ref (URL or local path), resizes it to a
// size×size square and returns it PNG-encoded.
func (s *ImageService) Fetch(ctx context.Context, ref string) ([]byte, error) {
	raw, err := s.read(ctx, ref)
	if err != nil {
		return nil, &ImageError{Kind: ImageFetchFailed, Ref: ref, Err: err}
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &ImageError{Kind: decodeErrorKind(err), Ref: ref, Err: err}
	}
	if s.maxPixels > 0 && int64(hdr.Width)*int64(hdr.Height) > s.maxPixels {
		return nil, &ImageError{
			Kind: ImageUnsupported,
			Ref:  ref,
			Err:  fmt.Errorf("%dx%d exceeds %d pixels", hdr.Width, hdr.Height, s.maxPixels),
		}
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &ImageError{Kind: decodeErrorKind(err), Ref: ref, Err: err}
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.size, s.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, &ImageError{Kind: ImageDecodeFailed, Ref: ref, Err: fmt.Errorf("encode png: %w", err)}
	}

	s.log.Debug().
		Str("ref", ref).
		Str("format", format).
		Int("src_w", src.Bounds().Dx()).
		Int("src_h", src.Bounds().Dy()).
		Msg("Image resized")

	return buf.Bytes(), nil
}

func decodeErrorKind(err error) ImageErrorKind {
	if errors.Is(err, image.ErrFormat) {
		return ImageUnsupported
	}
	return ImageDecodeFailed
}

func (s *ImageService) read(ctx context.Context, ref string) ([]byte, error) {
	if !IsRemote(ref) {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return s.readLimited(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return s.readLimited(resp.Body)
}

func (s *ImageService) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", s.maxBytes)
	}
	return data, nil
}
