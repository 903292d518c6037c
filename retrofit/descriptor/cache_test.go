package descriptor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BuildsOnce(t *testing.T) {
	c := NewCache()
	var calls int32

	build := func() (*Method, error) {
		atomic.AddInt32(&calls, 1)
		return Build(validSpec())
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrBuild("Svc.Get", build)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_DistinctKeys(t *testing.T) {
	c := NewCache()
	m1, err := c.GetOrBuild("a", func() (*Method, error) { return Build(validSpec()) })
	require.NoError(t, err)
	m2, err := c.GetOrBuild("b", func() (*Method, error) { return Build(validSpec()) })
	require.NoError(t, err)

	assert.NotSame(t, m1, m2)
}

func TestCache_BuildErrorNotCached(t *testing.T) {
	c := NewCache()
	spec := validSpec()
	spec.Verb = ""

	_, err := c.GetOrBuild("bad", func() (*Method, error) { return Build(spec) })
	require.Error(t, err)

	_, err = c.GetOrBuild("bad", func() (*Method, error) { return Build(validSpec()) })
	require.NoError(t, err)
}
