package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageConfig() *config.Config {
	return &config.Config{
		ImageSize:      200,
		ImageTimeout:   5 * time.Second,
		ImageMaxBytes:  1 << 20,
		ImageMaxPixels: 40 * 1000 * 1000,
		ImageUserAgent: config.DefaultUserAgent,
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return cfg.Width, cfg.Height
}

func TestImageServiceFetchLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 64, 32), 0o644))

	svc := NewImageService(testImageConfig(), zerolog.Nop())
	out, err := svc.Fetch(context.Background(), path)

	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 200, h)
}

func TestImageServiceFetchRemoteSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		img := image.NewRGBA(image.Rect(0, 0, 300, 400))
		w.Header().Set("Content-Type", "image/jpeg")
		_ = jpeg.Encode(w, img, nil)
	}))
	defer srv.Close()

	svc := NewImageService(testImageConfig(), zerolog.Nop())
	out, err := svc.Fetch(context.Background(), srv.URL+"/pic.jpg")

	require.NoError(t, err)
	assert.Equal(t, config.DefaultUserAgent, gotUA)
	w, h := decodeSize(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 200, h)
}

func TestImageServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/text":
			_, _ = w.Write([]byte("definitely not an image"))
		case "/huge":
			_, _ = w.Write(bytes.Repeat([]byte{0}, 4096))
		}
	}))
	defer srv.Close()

	cfg := testImageConfig()
	cfg.ImageMaxBytes = 1024
	svc := NewImageService(cfg, zerolog.Nop())

	tests := []struct {
		name string
		ref  string
		kind ImageErrorKind
	}{
		{name: "http 404", ref: srv.URL + "/missing", kind: ImageFetchFailed},
		{name: "not an image", ref: srv.URL + "/text", kind: ImageUnsupported},
		{name: "too large", ref: srv.URL + "/huge", kind: ImageFetchFailed},
		{name: "missing local file", ref: filepath.Join(t.TempDir(), "nope.png"), kind: ImageFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Fetch(context.Background(), tt.ref)

			assert.Nil(t, out)
			var ie *ImageError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.kind, ie.Kind)
			assert.Equal(t, tt.ref, ie.Ref)
		})
	}
}

func TestImageServiceRejectsOversizedDimensions(t *testing.T) {
	// A flat image compresses to a few hundred bytes whatever its dimensions.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 400, 300))))
	path := filepath.Join(t.TempDir(), "wide.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := testImageConfig()
	cfg.ImageMaxPixels = 100 * 1000
	svc := NewImageService(cfg, zerolog.Nop())

	out, err := svc.Fetch(context.Background(), path)

	assert.Nil(t, out)
	var ie *ImageError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, ImageUnsupported, ie.Kind)
	assert.Contains(t, ie.Error(), "400x300")
	assert.Less(t, buf.Len(), int(cfg.ImageMaxBytes), "rejected on pixels, not bytes")

	cfg.ImageMaxPixels = 120 * 1000
	out, err = NewImageService(cfg, zerolog.Nop()).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestImageServiceFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewImageService(testImageConfig(), zerolog.Nop())
	_, err := svc.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.png"))
	assert.True(t, IsRemote("HTTP://example.com/a.png"))
	assert.False(t, IsRemote("images/http_cat.png"))
	assert.False(t, IsRemote("/abs/path.png"))
}
