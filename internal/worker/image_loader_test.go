package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-quiz/internal/model"
	mock_worker "github.com/stemsi/exstem-quiz/internal/worker/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readyRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *readyRecorder) record(key string, status model.ImageStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, key+":"+string(status))
}

func (r *readyRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newLoader(t *testing.T, setup func(*mock_worker.MockImageFetcher)) (*ImageLoader, *readyRecorder) {
	ctrl := gomock.NewController(t)
	fetcher := mock_worker.NewMockImageFetcher(ctrl)
	if setup != nil {
		setup(fetcher)
	}

	rec := &readyRecorder{}
	l := NewImageLoader(fetcher, zerolog.Nop())
	l.OnReady(rec.record)
	t.Cleanup(l.Stop)
	return l, rec
}

func TestImageLoaderReady(t *testing.T) {
	l, rec := newLoader(t, func(m *mock_worker.MockImageFetcher) {
		m.EXPECT().Fetch(gomock.Any(), "pic.png").Return([]byte("png-bytes"), nil)
	})

	l.Load("q1", "pic.png")
	l.Wait()

	status, data := l.Get("q1")
	assert.Equal(t, model.ImageStatusReady, status)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, []string{"q1:READY"}, rec.all())
}

func TestImageLoaderFailed(t *testing.T) {
	l, rec := newLoader(t, func(m *mock_worker.MockImageFetcher) {
		m.EXPECT().Fetch(gomock.Any(), "https://example.com/x.png").Return(nil, errors.New("connection refused"))
	})

	l.Load("q1", "https://example.com/x.png")
	l.Wait()

	status, data := l.Get("q1")
	assert.Equal(t, model.ImageStatusFailed, status)
	assert.Nil(t, data)
	assert.Equal(t, []string{"q1:FAILED"}, rec.all())
}

func TestImageLoaderEmptyRef(t *testing.T) {
	l, rec := newLoader(t, nil)

	l.Load("q1", "")
	l.Wait()

	status, _ := l.Get("q1")
	assert.Equal(t, model.ImageStatusNone, status)
	assert.Empty(t, rec.all())
}

func TestImageLoaderPendingUntilFetchReturns(t *testing.T) {
	release := make(chan struct{})
	l, _ := newLoader(t, func(m *mock_worker.MockImageFetcher) {
		m.EXPECT().Fetch(gomock.Any(), "slow.png").DoAndReturn(func(ctx context.Context, ref string) ([]byte, error) {
			<-release
			return []byte("ok"), nil
		})
	})

	l.Load("q1", "slow.png")
	status, _ := l.Get("q1")
	assert.Equal(t, model.ImageStatusPending, status)

	close(release)
	l.Wait()
	status, _ = l.Get("q1")
	assert.Equal(t, model.ImageStatusReady, status)
}

func TestImageLoaderDiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	cancelled := make(chan struct{})

	l, rec := newLoader(t, func(m *mock_worker.MockImageFetcher) {
		m.EXPECT().Fetch(gomock.Any(), "old.png").DoAndReturn(func(ctx context.Context, ref string) ([]byte, error) {
			<-ctx.Done()
			close(cancelled)
			<-release
			// A fetcher that ignores cancellation still must not paint the old picture.
			return []byte("old"), nil
		})
		m.EXPECT().Fetch(gomock.Any(), "new.png").Return([]byte("new"), nil)
	})

	l.Load("q1", "old.png")
	l.Load("q2", "new.png")
	<-cancelled
	close(release)
	l.Wait()

	status, _ := l.Get("q1")
	assert.Equal(t, model.ImageStatusNone, status)

	status, data := l.Get("q2")
	require.Equal(t, model.ImageStatusReady, status)
	assert.Equal(t, []byte("new"), data)
	assert.Equal(t, []string{"q2:READY"}, rec.all())
}

func TestImageLoaderClearCancels(t *testing.T) {
	l, rec := newLoader(t, func(m *mock_worker.MockImageFetcher) {
		m.EXPECT().Fetch(gomock.Any(), "pic.png").DoAndReturn(func(ctx context.Context, ref string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	})

	l.Load("q1", "pic.png")
	l.Clear()
	l.Wait()

	status, _ := l.Get("q1")
	assert.Equal(t, model.ImageStatusNone, status)
	assert.Empty(t, rec.all())
}
