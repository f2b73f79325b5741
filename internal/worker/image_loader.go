package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/logger"
	"github.com/stemsi/exstem-quiz/internal/model"
)

//go:generate mockgen -source=image_loader.go -destination=mock/image_fetcher_mock.go

// ImageFetcher loads and scales one question image.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// ReadyFunc is called, outside the loader lock, when the load for key settles.
type ReadyFunc func(key string, status model.ImageStatus)

// ImageLoader runs at most one background image load at a time. Each load is
// tagged with a key (the question's presentation ID); starting a new load
// cancels the previous one and any result arriving for an old key is dropped.
type ImageLoader struct {
	fetcher ImageFetcher
	log     zerolog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	key     string
	status  model.ImageStatus
	data    []byte
	cancel  context.CancelFunc
	onReady ReadyFunc
}

// NewImageLoader creates a new ImageLoader.
func NewImageLoader(fetcher ImageFetcher, log zerolog.Logger) *ImageLoader {
	ctx, cancel := context.WithCancel(context.Background())
	return &ImageLoader{
		fetcher:    fetcher,
		log:        logger.Component(log, "image_loader"),
		baseCtx:    ctx,
		baseCancel: cancel,
		status:     model.ImageStatusNone,
	}
}

// OnReady registers the completion callback.
func (l *ImageLoader) OnReady(fn ReadyFunc) {
	l.mu.Lock()
	l.onReady = fn
	l.mu.Unlock()
}

// Load starts fetching ref for key. An empty ref only clears the slot.
func (l *ImageLoader) Load(key, ref string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetLocked(key)
	if ref == "" {
		return
	}

	ctx, cancel := context.WithCancel(l.baseCtx)
	l.cancel = cancel
	l.status = model.ImageStatusPending

	l.wg.Add(1)
	go l.run(ctx, key, ref)
}

// Clear cancels any in-flight load and forgets the current key.
func (l *ImageLoader) Clear() {
	l.mu.Lock()
	l.resetLocked("")
	l.mu.Unlock()
}

func (l *ImageLoader) resetLocked(key string) {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.key = key
	l.status = model.ImageStatusNone
	l.data = nil
}

func (l *ImageLoader) run(ctx context.Context, key, ref string) {
	defer l.wg.Done()

	data, err := l.fetcher.Fetch(ctx, ref)

	l.mu.Lock()
	if l.key != key || ctx.Err() != nil {
		l.mu.Unlock()
		l.log.Debug().Str("key", key).Str("ref", ref).Msg("Discarding stale image result")
		return
	}

	status := model.ImageStatusReady
	if err != nil {
		status = model.ImageStatusFailed
		l.log.Warn().Err(err).Str("ref", ref).Msg("Error loading image")
	} else {
		l.data = data
	}
	l.status = status
	l.cancel = nil
	cb := l.onReady
	l.mu.Unlock()

	if cb != nil {
		cb(key, status)
	}
}

// Get returns the image state for key. A key that is no longer current
// reports NONE.
func (l *ImageLoader) Get(key string) (model.ImageStatus, []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if key == "" || key != l.key {
		return model.ImageStatusNone, nil
	}
	return l.status, l.data
}

// Wait blocks until every started load goroutine has returned.
func (l *ImageLoader) Wait() {
	l.wg.Wait()
}

// Stop cancels all loads and waits for them to exit.
func (l *ImageLoader) Stop() {
	l.baseCancel()
	l.Clear()
	l.wg.Wait()
}
