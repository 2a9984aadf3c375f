package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kycdid/internal/identity/proof"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
	"kycdid/pkg/testutil"
)

func sampleRegistration(did string) *Registration {
	return &Registration{
		DID:             id.DID(did),
		Address:         "rAddr",
		PublicKey:       "ED00",
		TxHash:          "ABCDEF",
		ExplorerURL:     "https://explorer.test/tx/ABCDEF",
		URI:             "data:application/json;base64,e30=",
		CredentialTypes: []string{"IdentityCredential", "AddressCredential"},
		KYCTimestamp:    testutil.Now,
		Subject: proof.Subject{
			IsAdult:           true,
			ResidencyCountry:  "US",
			VerificationLevel: "full",
			IncomeCategory:    id.IncomeHigh,
		},
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.FindByDID(ctx, "did:test:missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	reg := sampleRegistration("did:test:one")
	require.NoError(t, s.Save(ctx, reg))
	reg.CredentialTypes[0] = "mutated"

	got, err := s.FindByDID(ctx, "did:test:one")
	require.NoError(t, err)
	assert.Equal(t, "IdentityCredential", got.CredentialTypes[0])
	assert.Equal(t, "rAddr", got.Address)

	assert.Error(t, s.Save(ctx, &Registration{}))
}

// fakeCache answers go-redis commands from a map.
type fakeCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	ttls    map[string]time.Duration
	readErr error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.readErr != nil {
		return redis.NewStringResult("", c.readErr)
	}
	v, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (c *fakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.([]byte)
	c.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// countingStore wraps a Store and counts lookups.
type countingStore struct {
	Store
	finds int
}

func (s *countingStore) FindByDID(ctx context.Context, did id.DID) (*Registration, error) {
	s.finds++
	return s.Store.FindByDID(ctx, did)
}

type CachedStoreSuite struct {
	suite.Suite
	ctx     context.Context
	backing *countingStore
	cache   *fakeCache
	store   *CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.backing = &countingStore{Store: NewInMemory()}
	s.cache = newFakeCache()
	s.store = NewCached(s.backing, s.cache, time.Minute, nil)
}

func (s *CachedStoreSuite) TestReadThroughPopulatesCache() {
	s.Require().NoError(s.store.Save(s.ctx, sampleRegistration("did:test:a")))

	first, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)
	second, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)

	s.Equal(1, s.backing.finds)
	s.Equal(first.Subject, second.Subject)
	s.Equal(first.KYCTimestamp.Unix(), second.KYCTimestamp.Unix())
	s.Equal(time.Minute, s.cache.ttls["did_registration:did:test:a"])
}

func (s *CachedStoreSuite) TestSaveInvalidatesEntry() {
	s.Require().NoError(s.store.Save(s.ctx, sampleRegistration("did:test:a")))
	_, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)

	updated := sampleRegistration("did:test:a")
	updated.TxHash = "FEDCBA"
	s.Require().NoError(s.store.Save(s.ctx, updated))

	got, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)
	s.Equal("FEDCBA", got.TxHash)
	s.Equal(2, s.backing.finds)
}

func (s *CachedStoreSuite) TestNotFoundIsNotCached() {
	_, err := s.store.FindByDID(s.ctx, "did:test:none")
	s.ErrorIs(err, ErrNotFound)
	s.Empty(s.cache.values)
}

func (s *CachedStoreSuite) TestCacheFailureFallsBack() {
	s.Require().NoError(s.store.Save(s.ctx, sampleRegistration("did:test:a")))
	s.cache.readErr = errors.New("connection refused")

	got, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)
	s.Equal("rAddr", got.Address)
	s.Equal(1, s.backing.finds)
}

func (s *CachedStoreSuite) TestCorruptEntryIsReplaced() {
	s.Require().NoError(s.store.Save(s.ctx, sampleRegistration("did:test:a")))
	s.cache.values["did_registration:did:test:a"] = []byte("{not json")

	got, err := s.store.FindByDID(s.ctx, "did:test:a")
	s.Require().NoError(err)
	s.Equal("rAddr", got.Address)
	s.NotEqual("{not json", string(s.cache.values["did_registration:did:test:a"]))
}

func (s *CachedStoreSuite) TestDefaultTTL() {
	st := NewCached(s.backing, s.cache, 0, nil)
	s.Equal(DefaultCacheTTL, st.ttl)
}
