package images

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReleaserOptions struct {
	QueueSize int
	Retries   int
	Backoff   time.Duration
	// OnFailure is called once per image that could not be deleted after
	// all retries.
	OnFailure func(url string, err error)
}

// Releaser deletes images in the background. Release never blocks; when the
// queue is full the image is dropped and logged.
type Releaser struct {
	store   Store
	opts    ReleaserOptions
	queue   chan string
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	closeMu sync.Once
}

func NewReleaser(store Store, opts ReleaserOptions) *Releaser {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	r := &Releaser{
		store: store,
		opts:  opts,
		queue: make(chan string, opts.QueueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// OwnerOf reports the uploader of url as recorded by the store.
func (r *Releaser) OwnerOf(url string) (uuid.UUID, error) {
	return r.store.OwnerOf(url)
}

// Release queues url for deletion when it is a managed image uploaded by
// owner. Anything else is skipped.
func (r *Releaser) Release(owner uuid.UUID, url string) {
	if url == "" {
		return
	}
	uploader, err := r.store.OwnerOf(url)
	if errors.Is(err, ErrForeignURL) {
		slog.Info("skipping release of unmanaged image", "image_url", url)
		return
	}
	if err != nil || uploader != owner {
		slog.Warn("refusing to release image of another uploader", "image_url", url, "owner", owner)
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		slog.Warn("image releaser closed, dropping image", "image_url", url)
		return
	}

	select {
	case r.queue <- url:
	default:
		slog.Warn("image release queue full, dropping image", "image_url", url)
		r.fail(url, errors.New("release queue full"))
	}
}

// Close stops accepting images and waits for queued ones until ctx ends.
func (r *Releaser) Close(ctx context.Context) error {
	r.closeMu.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Releaser) run() {
	defer close(r.done)
	for url := range r.queue {
		r.release(url)
	}
}

func (r *Releaser) release(url string) {
	var err error
	for attempt := 1; attempt <= r.opts.Retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = r.store.Delete(ctx, url)
		cancel()

		if err == nil || errors.Is(err, ErrNotFound) {
			slog.Debug("image released", "image_url", url, "attempt", attempt)
			return
		}
		if errors.Is(err, ErrForeignURL) {
			break
		}

		slog.Warn("image release failed", "image_url", url, "attempt", attempt, "error", err)
		if attempt < r.opts.Retries {
			time.Sleep(r.opts.Backoff * time.Duration(attempt))
		}
	}

	slog.Error("giving up on image release", "image_url", url, "error", err)
	r.fail(url, err)
}

func (r *Releaser) fail(url string, err error) {
	if r.opts.OnFailure != nil {
		r.opts.OnFailure(url, err)
	}
}
