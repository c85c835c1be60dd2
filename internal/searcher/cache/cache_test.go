package cache

import (
	"context"
	"errors"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/config"
	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/redis"
)

// memStore is an in-process Store used to exercise the cache without Redis.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
	fail error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		s.data[key] = string(v)
	case string:
		s.data[key] = v
	}
	return nil
}

func (s *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

func result(ids ...string) *executor.SearchResult {
	return &executor.SearchResult{Query: "q", Results: ids}
}

func TestGetOrCompute(t *testing.T) {
	c := New(newMemStore(), time.Minute, "gen1", nil)
	ctx := context.Background()
	calls := 0
	compute := func() (*executor.SearchResult, error) {
		calls++
		return result("docA", "docC"), nil
	}

	got, hit, err := c.GetOrCompute(ctx, "cat", "dog", 5, compute)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	got, hit, err = c.GetOrCompute(ctx, "cat", "dog", 5, compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times", calls)
	}
	if len(got.Results) != 2 || got.Results[0] != "docA" {
		t.Errorf("cached result = %+v", got)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits %d misses", hits, misses)
	}
}

func TestKeywordOrderIsPartOfKey(t *testing.T) {
	c := New(newMemStore(), time.Minute, "gen1", nil)
	ctx := context.Background()
	c.Set(ctx, "cat", "dog", 5, result("docA"))
	if _, ok := c.Get(ctx, "dog", "cat", 5); ok {
		t.Error("reversed keywords must not share a cache entry")
	}
	if _, ok := c.Get(ctx, "cat", "dog", 3); ok {
		t.Error("different limits must not share a cache entry")
	}
	other := New(c.store, time.Minute, "gen2", nil)
	if _, ok := other.Get(ctx, "cat", "dog", 5); ok {
		t.Error("a new generation must not see old entries")
	}
}

func TestGetOrComputeError(t *testing.T) {
	c := New(newMemStore(), time.Minute, "g", nil)
	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(context.Background(), "a", "b", 5, func() (*executor.SearchResult, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := c.Get(context.Background(), "a", "b", 5); ok {
		t.Error("errors must not be cached")
	}
}

func TestStoreFailureIsAMiss(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("connection refused")
	c := New(store, time.Minute, "g", nil)
	if _, ok := c.Get(context.Background(), "a", "b", 5); ok {
		t.Fatal("expected miss")
	}
	if _, misses := c.Stats(); misses != 1 {
		t.Errorf("misses = %d", misses)
	}
}

func TestSingleflightCollapsesConcurrentMisses(t *testing.T) {
	c := New(newMemStore(), time.Minute, "g", nil)
	var calls atomic.Int32
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrCompute(context.Background(), "x", "y", 5, func() (*executor.SearchResult, error) {
				calls.Add(1)
				<-release
				return result("d"), nil
			})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	if calls.Load() != 1 {
		t.Fatalf("compute ran %d times, want 1", calls.Load())
	}
	if _, ok := c.Get(context.Background(), "x", "y", 5); !ok {
		t.Error("result should be cached")
	}
}

func TestInvalidate(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute, "g", nil)
	ctx := context.Background()
	c.Set(ctx, "a", "b", 5, result("d1"))
	c.Set(ctx, "c", "d", 5, result("d2"))
	store.data["unrelated"] = "keep"

	if err := c.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if len(store.data) != 1 {
		t.Errorf("remaining keys = %v", store.data)
	}
}

func TestWithRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis-backed cache test")
	}
	client, err := pkgredis.NewClient(config.RedisConfig{Addr: addr, PoolSize: 2})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer client.Close()

	c := New(client, time.Minute, time.Now().Format("150405.000"), nil)
	ctx := context.Background()
	c.Set(ctx, "cat", "dog", 5, result("docA"))
	got, ok := c.Get(ctx, "cat", "dog", 5)
	if !ok || got.Results[0] != "docA" {
		t.Fatalf("get = %+v, %v", got, ok)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
}
