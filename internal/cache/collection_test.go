package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string
	Name string
}

func rowKey(r row) string { return r.ID }

func fixedFetch(calls *int32, rows ...row) FetchFunc[row] {
	return func(ctx context.Context) ([]row, error) {
		atomic.AddInt32(calls, 1)
		return append([]row(nil), rows...), nil
	}
}

func TestCollection_LazyLoadOnce(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls, row{"1", "a"}, row{"2", "b"}))
	ctx := context.Background()

	assert.False(t, c.Loaded())
	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, c.Loaded())
}

func TestCollection_ItemsReturnsCopy(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls, row{"1", "a"}))
	ctx := context.Background()

	items, err := c.Items(ctx)
	require.NoError(t, err)
	items[0].Name = "mutated"

	again, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Name)
}

func TestCollection_WriteThrough(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls, row{"1", "a"}, row{"2", "b"}))
	ctx := context.Background()
	_, err := c.Items(ctx)
	require.NoError(t, err)

	c.Prepend(row{"3", "c"})
	c.Upsert(row{"1", "a2"})
	c.Upsert(row{"4", "d"})
	c.Remove("2")

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []row{{"4", "d"}, {"3", "c"}, {"1", "a2"}}, items)
}

func TestCollection_MutationsBeforeLoadAreDropped(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls, row{"1", "a"}))

	c.Prepend(row{"9", "z"})
	c.Remove("1")

	items, err := c.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []row{{"1", "a"}}, items)
}

func TestCollection_FailedRefreshKeepsPreviousList(t *testing.T) {
	fail := false
	c := New(rowKey, func(ctx context.Context) ([]row, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return []row{{"1", "a"}}, nil
	})
	ctx := context.Background()

	_, err := c.Items(ctx)
	require.NoError(t, err)

	fail = true
	_, err = c.Refresh(ctx)
	assert.EqualError(t, err, "connection refused")

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []row{{"1", "a"}}, items)
}

func TestCollection_InvalidateForcesFetch(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls))
	ctx := context.Background()

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)

	c.Invalidate()
	_, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCollection_ConcurrentAccess(t *testing.T) {
	var calls int32
	c := New(rowKey, fixedFetch(&calls, row{"1", "a"}))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Items(ctx)
			c.Upsert(row{"1", "a"})
		}(i)
	}
	wg.Wait()

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
