// Package keylock serializes work per key over a fixed set of shards.
package keylock

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// Striped maps keys onto shardCount mutexes. Two keys may share a shard, so a
// holder must never take a second key while holding the first.
type Striped struct {
	shards [shardCount]sync.Mutex
}

func New() *Striped {
	return &Striped{}
}

func (s *Striped) Lock(key string)   { s.shards[shardOf(key)].Lock() }
func (s *Striped) Unlock(key string) { s.shards[shardOf(key)].Unlock() }

// With runs fn while holding key's shard.
func (s *Striped) With(key string, fn func() error) error {
	s.Lock(key)
	defer s.Unlock(key)
	return fn()
}

func shardOf(key string) uint32 {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
