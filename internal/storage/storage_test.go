package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/RecoveryAshes/unit3d-autodelete/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Backend {
	t.Helper()

	fileBackend, err := OpenFile(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)

	sqliteBackend, err := OpenSQLite(filepath.Join(t.TempDir(), "sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteBackend.Close() })

	return map[string]Backend{
		BackendFile:   fileBackend,
		BackendSQLite: sqliteBackend,
		BackendMemory: NewMemory(),
	}
}

func TestQueueStore_LoadSaveClear(t *testing.T) {
	ctx := context.Background()

	for name, backend := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewQueueStore(backend)

			q, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, q, "初始状态应为空闲")

			want := &models.Queue{URLs: []string{"https://site/torrents/1", "https://site/torrents/2"}, Index: 1}
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, store.Clear(ctx))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got, "清除后应为空闲")
		})
	}
}

func TestQueueStore_RejectsInvalidQueue(t *testing.T) {
	store := NewQueueStore(NewMemory())
	err := store.Save(context.Background(), &models.Queue{URLs: []string{"https://a/1"}, Index: 5})
	assert.True(t, errors.Is(err, models.ErrQueueIndex))
}

func TestFileBackend_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, NewQueueStore(first).Save(ctx, &models.Queue{URLs: []string{"https://a/1"}}))
	require.NoError(t, NewDraftStore(first).Save(ctx, "https://a/2\n"))

	second, err := OpenFile(dir)
	require.NoError(t, err)

	q, err := NewQueueStore(second).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, []string{"https://a/1"}, q.URLs)

	draft, err := NewDraftStore(second).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://a/2\n", draft)

	raw, err := os.ReadFile(second.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"autoDeleteQueue"`)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("{broken"), 0644))

	backend, err := OpenFile(dir)
	require.NoError(t, err)

	_, err = NewQueueStore(backend).Load(context.Background())
	assert.Error(t, err)
}

func TestDraftStore_Lines(t *testing.T) {
	ctx := context.Background()
	drafts := NewDraftStore(NewMemory())

	lines, err := drafts.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, drafts.Save(ctx, "https://a/1\n\n  https://a/2  \n"))
	lines, err = drafts.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1", "https://a/2"}, lines)

	require.NoError(t, drafts.Clear(ctx))
	text, err := drafts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestAcquireRunnerLock_Exclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireRunnerLock(dir)
	require.NoError(t, err)

	_, err = AcquireRunnerLock(dir)
	assert.True(t, errors.Is(err, models.ErrRunnerLocked), "第二个运行锁应失败, 得到 %v", err)

	require.NoError(t, first.Release())

	again, err := AcquireRunnerLock(dir)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestFileBackend_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- backend.Put(ctx, "k"+strconv.Itoa(i), []byte("1"))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for i := 0; i < workers; i++ {
		_, ok, err := backend.Get(ctx, "k"+strconv.Itoa(i))
		require.NoError(t, err)
		assert.True(t, ok, "键 k%d 在并发写入后丢失", i)
	}
}

func TestFileBackend_DraftWritesKeepQueueIndex(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	queue := NewQueueStore(backend)
	drafts := NewDraftStore(backend)
	urls := []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4"}
	require.NoError(t, queue.Save(ctx, &models.Queue{URLs: urls}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= len(urls); i++ {
			assert.NoError(t, queue.Save(ctx, &models.Queue{URLs: urls, Index: i}))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			assert.NoError(t, drafts.Save(ctx, strconv.Itoa(i)))
		}
	}()
	wg.Wait()

	q, err := queue.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, len(urls), q.Index, "草稿写入不应回退队列游标")

	draft, err := drafts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "39", draft)
}
