package embed

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrUnavailable marks a failed SDK load. Embedded tracks stay
// unplayable for the rest of the session.
var ErrUnavailable = errors.New("embedded player unavailable")

// Bootstrap performs the one-time, shared SDK load. The first Wait
// starts it; every caller observes the same result.
type Bootstrap struct {
	load Loader
	once sync.Once
	done chan struct{}
	sdk  SDK
	err  error
}

// NewBootstrap creates a bootstrap around load.
func NewBootstrap(load Loader) *Bootstrap {
	return &Bootstrap{load: load, done: make(chan struct{})}
}

// Start triggers the load if it was not triggered yet.
func (b *Bootstrap) Start() {
	b.once.Do(func() {
		go func() {
			defer close(b.done)
			sdk, err := b.load(context.Background())
			if err == nil && sdk == nil {
				err = errors.New("loader returned no sdk")
			}
			if err != nil {
				b.err = errors.WithSecondaryError(errors.Wrap(ErrUnavailable, "load embed sdk"), err)
				return
			}
			b.sdk = sdk
		}()
	})
}

// Wait starts the load and blocks until it completes or ctx is done.
// Cancelling ctx abandons the wait, never the shared load.
func (b *Bootstrap) Wait(ctx context.Context) (SDK, error) {
	b.Start()
	select {
	case <-b.done:
		return b.sdk, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the load has completed.
func (b *Bootstrap) Done() <-chan struct{} {
	return b.done
}

// Failed reports whether the load completed with an error.
func (b *Bootstrap) Failed() bool {
	return b.Err() != nil
}

// Err returns the load error once the load has completed, nil before.
func (b *Bootstrap) Err() error {
	select {
	case <-b.done:
		return b.err
	default:
		return nil
	}
}

// Close releases the loaded sdk if it holds resources. A load that has
// not completed is left alone.
func (b *Bootstrap) Close() error {
	select {
	case <-b.done:
	default:
		return nil
	}
	if c, ok := b.sdk.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
