package keylock

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameKeySerializes(t *testing.T) {
	s := New()
	counter := 0
	var wg sync.WaitGroup
	for range 200 {
		wg.Go(func() {
			_ = s.With("rAccount", func() error {
				counter++
				return nil
			})
		})
	}
	wg.Wait()
	assert.Equal(t, 200, counter)
}

func TestWithReturnsFnError(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, New().With("k", func() error { return boom }), boom)
}

func TestKeysSpreadAcrossShards(t *testing.T) {
	seen := map[uint32]bool{}
	for _, k := range []string{"0xaaa", "0xbbb", "0xccc", "0xddd", "0xeee", "0xfff"} {
		seen[shardOf(k)] = true
	}
	assert.GreaterOrEqual(t, len(seen), 3)
	assert.Equal(t, uint32(0), shardOf(""))
}
