package alerts

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryResolveUnresolve(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsResolved(1))

	r.Resolve(1)
	assert.True(t, r.IsResolved(1))

	// Idempotent in both directions.
	r.Resolve(1)
	assert.True(t, r.IsResolved(1))

	r.Unresolve(1)
	assert.False(t, r.IsResolved(1))
	r.Unresolve(1)
	assert.False(t, r.IsResolved(1))
}

func TestRegistryResolvedIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Resolve(1)
	r.Resolve(2)

	snapshot := r.Resolved()
	assert.Equal(t, map[int]bool{1: true, 2: true}, snapshot)

	snapshot[3] = true
	assert.False(t, r.IsResolved(3))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.Resolve(id % 5)
			r.IsResolved(id % 5)
			r.Resolved()
		}(i)
	}
	wg.Wait()

	for id := 0; id < 5; id++ {
		assert.True(t, r.IsResolved(id))
	}
}
