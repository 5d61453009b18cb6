package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id     int
	closed atomic.Bool
}

func TestLazy_ConnectsOnceUnderConcurrency(t *testing.T) {
	var dials atomic.Int32
	release := make(chan struct{})

	lazy := NewLazy("fake", func(ctx context.Context) (*fakeConn, error) {
		n := dials.Add(1)
		<-release
		return &fakeConn{id: int(n)}, nil
	}, nil)

	assert.False(t, lazy.Connected())

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*fakeConn, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := lazy.Get(context.Background())
			assert.NoError(t, err)
			results[i] = conn
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), dials.Load())
	for _, conn := range results {
		assert.Same(t, results[0], conn)
	}
	assert.True(t, lazy.Connected())
}

func TestLazy_RetriesAfterFailure(t *testing.T) {
	var dials atomic.Int32
	lazy := NewLazy("fake", func(ctx context.Context) (*fakeConn, error) {
		if dials.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return &fakeConn{id: 2}, nil
	}, nil)

	_, err := lazy.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	conn, err := lazy.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, conn.id)
}

func TestLazy_Close(t *testing.T) {
	lazy := NewLazy("fake", func(ctx context.Context) (*fakeConn, error) {
		return &fakeConn{id: 1}, nil
	}, func(ctx context.Context, c *fakeConn) error {
		c.closed.Store(true)
		return nil
	})

	// закрытие до подключения - no-op
	untouched := NewLazy("untouched", func(ctx context.Context) (*fakeConn, error) {
		t.Fatal("must not connect")
		return nil, nil
	}, nil)
	require.NoError(t, untouched.Close(context.Background()))

	conn, err := lazy.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, lazy.Close(context.Background()))
	assert.True(t, conn.closed.Load())
	require.NoError(t, lazy.Close(context.Background()))

	_, err = lazy.Get(context.Background())
	assert.Error(t, err)
}
