package rpcclient

import (
	"context"
	"testing"
)

type fakeCache struct {
	data map[string][]byte
	puts int
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, programID string) ([]byte, bool, error) {
	d, ok := c.data[programID]
	return d, ok, nil
}

func (c *fakeCache) Put(_ context.Context, programID string, data []byte) error {
	c.puts++
	c.data[programID] = data
	return nil
}

func TestCachingFetcherReturnsCachedDataWithoutClient(t *testing.T) {
	cache := newFakeCache()
	cache.data["prog1"] = []byte("cached-bytes")

	// A nil *Client would panic if the fetcher ever tried to call it; passing
	// nil here proves the cache hit path never reaches the RPC client.
	f := NewCachingFetcher(nil, cache)

	got, err := f.Fetch(context.Background(), "prog1")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != "cached-bytes" {
		t.Errorf("Fetch() = %q, want %q", got, "cached-bytes")
	}
	if cache.puts != 0 {
		t.Errorf("Put called %d times, want 0 on a cache hit", cache.puts)
	}
}
