// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/greenpadconcepts/greenpad/internal/store"
)

const postsPrefix = "posts:"

// PostStore is the blog post table.
type PostStore interface {
	CreateBlogPost(ctx context.Context, arg store.CreateBlogPostParams) (store.BlogPost, error)
	UpdateBlogPost(ctx context.Context, arg store.UpdateBlogPostParams) (store.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error
	GetBlogPost(ctx context.Context, id string) (store.BlogPost, error)
	ListBlogPosts(ctx context.Context, limit int64) ([]store.BlogPost, error)
	ListBlogPostsByCategory(ctx context.Context, category string) ([]store.BlogPost, error)
}

// Posts is a read-through cache in front of a PostStore. Every write drops
// all cached post data. Cache failures fall back to the store.
type Posts struct {
	store  PostStore
	cache  Cacher
	logger *slog.Logger

	// gen counts writes. A read only stores its result when no write
	// happened while it was loading.
	mu  sync.RWMutex
	gen uint64
}

// NewPosts wraps s with c.
func NewPosts(s PostStore, c Cacher, logger *slog.Logger) *Posts {
	return &Posts{store: s, cache: c, logger: logger}
}

func (p *Posts) CreateBlogPost(ctx context.Context, arg store.CreateBlogPostParams) (store.BlogPost, error) {
	post, err := p.store.CreateBlogPost(ctx, arg)
	if err == nil {
		p.invalidate(ctx)
	}
	return post, err
}

func (p *Posts) UpdateBlogPost(ctx context.Context, arg store.UpdateBlogPostParams) (store.BlogPost, error) {
	post, err := p.store.UpdateBlogPost(ctx, arg)
	if err == nil {
		p.invalidate(ctx)
	}
	return post, err
}

func (p *Posts) DeleteBlogPost(ctx context.Context, id string) error {
	err := p.store.DeleteBlogPost(ctx, id)
	if err == nil {
		p.invalidate(ctx)
	}
	return err
}

// GetBlogPost caches found posts only; a miss in the store is not cached.
func (p *Posts) GetBlogPost(ctx context.Context, id string) (store.BlogPost, error) {
	return readThrough(ctx, p, postsPrefix+"id:"+id, func() (store.BlogPost, error) {
		return p.store.GetBlogPost(ctx, id)
	})
}

func (p *Posts) ListBlogPosts(ctx context.Context, limit int64) ([]store.BlogPost, error) {
	return readThrough(ctx, p, postsPrefix+"list:"+strconv.FormatInt(limit, 10), func() ([]store.BlogPost, error) {
		return p.store.ListBlogPosts(ctx, limit)
	})
}

func (p *Posts) ListBlogPostsByCategory(ctx context.Context, category string) ([]store.BlogPost, error) {
	return readThrough(ctx, p, postsPrefix+"category:"+category, func() ([]store.BlogPost, error) {
		return p.store.ListBlogPostsByCategory(ctx, category)
	})
}

func (p *Posts) invalidate(ctx context.Context) {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()

	if err := p.cache.DeleteByPrefix(ctx, postsPrefix); err != nil {
		p.logger.Warn("failed to invalidate post cache", "error", err)
	}
}

func readThrough[T any](ctx context.Context, p *Posts, key string, load func() (T, error)) (T, error) {
	data, err := p.cache.Get(ctx, key)
	if err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		p.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		p.logger.Warn("post cache read failed", "error", err, "key", key)
	}

	p.mu.RLock()
	gen := p.gen
	p.mu.RUnlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	data, err = json.Marshal(v)
	if err != nil {
		return v, nil
	}

	// Holding the read lock through Set orders it before the next
	// invalidation's prefix delete.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.gen != gen {
		return v, nil
	}
	if err := p.cache.Set(ctx, key, data, 0); err != nil {
		p.logger.Warn("post cache write failed", "error", err, "key", key)
	}
	return v, nil
}
