package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "resume_builder_session:abc", Key("abc"))
}

func TestRedisMirror_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	mirror, err := NewRedisMirror(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer func() { _ = mirror.Close() }()

	id := uuid.New().String()
	defer func() { _ = mirror.Delete(ctx, id) }()

	_, found, err := mirror.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	data := types.NewResumeData()
	data.Name = "Ada"
	snap := types.Snapshot{Resume: data, Presentation: types.NewPresentation(), Revision: 3}
	require.NoError(t, mirror.Save(ctx, id, snap, time.Minute))

	got, found, err := mirror.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snap, got)
}

func TestNewRedisMirror_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials the network")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisMirror(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisMirror_KeepsNewerRevision(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	mirror, err := NewRedisMirror(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer func() { _ = mirror.Close() }()

	id := uuid.New().String()
	defer func() { _ = mirror.Delete(ctx, id) }()

	newer := types.Snapshot{Resume: types.NewResumeData(), Presentation: types.NewPresentation(), Revision: 5}
	newer.Resume.Name = "newer"
	older := types.Snapshot{Resume: types.NewResumeData(), Presentation: types.NewPresentation(), Revision: 3}
	older.Resume.Name = "older"

	require.NoError(t, mirror.Save(ctx, id, newer, time.Minute))
	require.NoError(t, mirror.Save(ctx, id, older, time.Minute))

	got, found, err := mirror.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(5), got.Revision)
	assert.Equal(t, "newer", got.Resume.Name)
}

func TestPendingSave_DropsOlderRevisions(t *testing.T) {
	var p pendingSave
	var written []uint64
	save := func(s types.Snapshot) { written = append(written, s.Revision) }

	p.offer(types.Snapshot{Revision: 2}, save)
	p.offer(types.Snapshot{Revision: 1}, save)
	p.offer(types.Snapshot{Revision: 2}, save)
	p.offer(types.Snapshot{Revision: 3}, save)

	assert.Equal(t, []uint64{2, 3}, written)
}

func TestPendingSave_CoalescesWhileWriting(t *testing.T) {
	var p pendingSave
	var written []uint64
	release := make(chan struct{})
	started := make(chan struct{})

	slow := func(s types.Snapshot) {
		written = append(written, s.Revision)
		if s.Revision == 1 {
			close(started)
			<-release
		}
	}

	done := make(chan struct{})
	go func() {
		p.offer(types.Snapshot{Revision: 1}, slow)
		close(done)
	}()
	<-started

	// These return immediately; the goroutine above is still draining.
	p.offer(types.Snapshot{Revision: 3}, slow)
	p.offer(types.Snapshot{Revision: 2}, slow)
	p.offer(types.Snapshot{Revision: 4}, slow)
	close(release)
	<-done

	assert.Equal(t, []uint64{1, 4}, written)
}
