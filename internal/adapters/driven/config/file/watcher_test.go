package file

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("ui.theme", "dark"))

	w := NewWatcher(store, 10*time.Millisecond)
	var reloads atomic.Int32
	w.OnChange(func(s *ConfigStore) {
		if s.GetString("ui.theme") == "light" {
			reloads.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before the write.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[ui]\ntheme = \"light\"\n"), 0600))

	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "light", store.GetString("ui.theme"))

	cancel()
	assert.NoError(t, <-done)
}
