package rpcclient

import (
	"context"
	"fmt"
)

// byteCache is the subset of fetchcache.Cache a CachingFetcher needs.
type byteCache interface {
	Get(ctx context.Context, programID string) (data []byte, ok bool, err error)
	Put(ctx context.Context, programID string, data []byte) error
}

// CachingFetcher resolves a program id to its executable bytes, consulting
// cache before falling back to a Solana RPC round-trip through Client, and
// populating cache on a successful fetch.
type CachingFetcher struct {
	client *Client
	cache  byteCache
}

// NewCachingFetcher returns a CachingFetcher backed by client and cache.
func NewCachingFetcher(client *Client, cache byteCache) *CachingFetcher {
	return &CachingFetcher{client: client, cache: cache}
}

// Fetch returns programID's executable bytes, from cache if present.
func (f *CachingFetcher) Fetch(ctx context.Context, programID string) ([]byte, error) {
	if data, ok, err := f.cache.Get(ctx, programID); err != nil {
		return nil, fmt.Errorf("rpcclient: cache lookup: %w", err)
	} else if ok {
		return data, nil
	}

	data, err := f.client.GetAccountData(ctx, programID)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Put(ctx, programID, data); err != nil {
		return nil, fmt.Errorf("rpcclient: cache store: %w", err)
	}
	return data, nil
}
