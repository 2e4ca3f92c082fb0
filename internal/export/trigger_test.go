package export

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger_RefusesWhileBusy(t *testing.T) {
	raster := &fakeRasterizer{bitmap: solidBitmap(10, 10), block: make(chan struct{})}
	trigger := NewTrigger(NewPipeline(raster, &recordingPackager{}))
	doc := testDocument(t)

	done := make(chan error, 1)
	go func() {
		_, err := trigger.Fire(context.Background(), doc)
		done <- err
	}()

	require.Eventually(t, trigger.Busy, time.Second, 5*time.Millisecond)

	_, err := trigger.Fire(context.Background(), doc)
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(raster.block)
	require.NoError(t, <-done)
	assert.False(t, trigger.Busy())

	_, err = trigger.Fire(context.Background(), doc)
	assert.NoError(t, err, "trigger must re-arm after completion")
}

func TestTrigger_Callbacks(t *testing.T) {
	var successes, failures atomic.Int32
	var busyInCallback atomic.Bool

	trigger := NewTrigger(NewPipeline(&fakeRasterizer{bitmap: solidBitmap(10, 10)}, &recordingPackager{}))
	trigger.OnSuccess = func(res *Result) {
		successes.Add(1)
		busyInCallback.Store(trigger.Busy())
	}
	trigger.OnFailure = func(error) { failures.Add(1) }

	_, err := trigger.Fire(context.Background(), testDocument(t))
	require.NoError(t, err)

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(0), failures.Load())
	assert.False(t, busyInCallback.Load())
}

func TestTrigger_FailureRearms(t *testing.T) {
	var gotErr error
	trigger := NewTrigger(NewPipeline(&fakeRasterizer{err: errors.New("no browser")}, &recordingPackager{}))
	trigger.OnFailure = func(err error) { gotErr = err }

	_, err := trigger.Fire(context.Background(), testDocument(t))

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, err, gotErr)
	assert.False(t, trigger.Busy())
}

func TestTrigger_Cancelled(t *testing.T) {
	raster := &fakeRasterizer{bitmap: solidBitmap(10, 10), block: make(chan struct{})}
	trigger := NewTrigger(NewPipeline(raster, &recordingPackager{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := trigger.Fire(ctx, testDocument(t))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, trigger.Busy())
}
